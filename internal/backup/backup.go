// Package backup exports the signed-in user's data as a JSON document and imports it back.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

const Version = "1.0"

// maxSize bounds how much of an uploaded document is read.
const maxSize = 20 << 20

// ImportFormatError rejects a document that is not a backup. Nothing is changed when it is returned.
type ImportFormatError struct {
	Reason string
}

func (e *ImportFormatError) Error() string {
	return "invalid backup: " + e.Reason
}

type Owner struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Plan  user.Plan `json:"plan"`
}

type Document struct {
	ID         string         `json:"id,omitempty"`
	User       Owner          `json:"user"`
	Data       *userdata.Data `json:"data"`
	ExportDate time.Time      `json:"exportDate"`
	Version    string         `json:"version"`
}

// Session is the part of session.Manager a backup needs.
type Session interface {
	Snapshot() (*user.User, *userdata.Data, error)
	ReplaceData(ctx context.Context, d *userdata.Data) error
}

type Service struct {
	sess Session
	now  func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(sess Session, opts ...Option) *Service {
	s := &Service{sess: sess, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Export builds a document from the current working copy.
func (s *Service) Export() (*Document, error) {
	u, data, err := s.sess.Snapshot()
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:         uuid.NewString(),
		User:       Owner{Name: u.Name, Email: u.Email, Plan: u.Plan},
		Data:       data,
		ExportDate: s.now(),
		Version:    Version,
	}, nil
}

// Import replaces the working copy with the document read from r.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Document, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}

	if err := s.sess.ReplaceData(ctx, doc.Data); err != nil {
		return nil, fmt.Errorf("replacing data: %w", err)
	}

	return doc, nil
}

func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Decode reads a document in any common charset. The version may sit at the top
// level or under metadata.version; unknown fields are ignored and missing
// collections come back empty.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	if len(raw) > maxSize {
		return nil, &ImportFormatError{Reason: "document too large"}
	}

	b, err := toUTF8(raw)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(b) {
		return nil, &ImportFormatError{Reason: "not a JSON document"}
	}

	data := gjson.GetBytes(b, "data")
	if !data.IsObject() {
		return nil, &ImportFormatError{Reason: "missing data"}
	}

	version := gjson.GetBytes(b, "version")
	if !version.Exists() {
		version = gjson.GetBytes(b, "metadata.version")
	}

	if version.String() == "" {
		return nil, &ImportFormatError{Reason: "missing version"}
	}

	// Older exports wrote the version as a number.
	var in struct {
		Document
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, &ImportFormatError{Reason: err.Error()}
	}

	doc := in.Document
	doc.Version = version.String()

	if doc.ExportDate.IsZero() {
		if t, err := time.Parse(time.RFC3339Nano, gjson.GetBytes(b, "metadata.exportDate").String()); err == nil {
			doc.ExportDate = t
		}
	}
	doc.Data.Normalize()

	return &doc, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename is the suggested download name for a document.
func Filename(doc *Document) string {
	return fmt.Sprintf("lifemanager-backup-%s-%s.json", whitespace.ReplaceAllString(doc.User.Name, "-"), doc.ExportDate.Format(time.DateOnly))
}
