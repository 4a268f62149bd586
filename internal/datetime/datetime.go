// Package datetime parses the deadline formats stored records and forms use.
package datetime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// EndOfDay is the last second of t's calendar day, in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// ParseDeadline reads an RFC 3339 timestamp or a bare YYYY-MM-DD date.
// A bare date means the end of that day in loc.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return EndOfDay(t), nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q: want YYYY-MM-DD or RFC 3339", s)
	}

	return t, nil
}

// DecodeDeadline decodes a JSON deadline in local time. Absent, null and "" all give nil.
func DecodeDeadline(raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("invalid deadline: %w", err)
	}

	if s == "" {
		return nil, nil
	}

	t, err := ParseDeadline(s, time.Local)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
