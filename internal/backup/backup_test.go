package backup_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/lifemanager/internal/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/memory"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/team"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

var fixedNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

func newSession(t *testing.T) *session.Manager {
	t.Helper()

	m := session.NewManager(memory.New(),
		session.WithClock(func() time.Time { return fixedNow }),
		session.WithHasher(user.LegacyHasher{}),
	)

	_, err := m.Register(context.Background(), user.RegisterParams{
		Name: "Ana Maria", Email: "ana@x.com", Password: "abcdef", ConfirmPassword: "abcdef",
	})
	require.NoError(t, err)

	return m
}

func sampleData() *userdata.Data {
	d := userdata.New()
	d.Tasks = append(d.Tasks, &task.Task{
		ID: 3, Title: "Pay rent", Priority: task.PriorityHigh, Status: task.StatusDone,
		Deadline: new(fixedNow.AddDate(0, 0, 2)), CreatedAt: fixedNow, CompletedAt: new(fixedNow), OwnerID: "ana@x.com",
	})
	d.Transactions = append(d.Transactions, &transaction.Transaction{
		ID: 5, Type: transaction.TypeExpense, Description: "Groceries", Amount: decimal.RequireFromString("123.45"),
		Category: transaction.CategoryFood, Date: fixedNow, CreatedAt: fixedNow, OwnerID: "ana@x.com",
	})
	d.Goals = append(d.Goals, &goal.Goal{
		ID: 2, Name: "Trip", Type: goal.TypeFinancial, Deadline: fixedNow.AddDate(0, 6, 0), CreatedAt: fixedNow,
		Financial: &goal.Financial{Amount: decimal.NewFromInt(5000), CurrentAmount: decimal.NewFromInt(750)},
	})
	d.TeamMembers = append(d.TeamMembers, &team.Member{
		ID: 1, Email: "bob@x.com", Role: team.RoleMember, Status: team.StatusActive, JoinedAt: fixedNow,
	})
	d.Achievements.Unlocked = []string{"first_task"}
	d.Achievements.TotalPoints = 10

	return d
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newSession(t)
	require.NoError(t, m.ReplaceData(ctx, sampleData()))

	svc := backup.NewService(m, backup.WithClock(func() time.Time { return fixedNow }))

	doc, err := svc.Export()
	require.NoError(t, err)
	assert.Equal(t, backup.Version, doc.Version)
	assert.Equal(t, "Ana Maria", doc.User.Name)
	assert.Equal(t, "lifemanager-backup-Ana-Maria-2024-03-14.json", backup.Filename(doc))

	var buf bytes.Buffer
	require.NoError(t, backup.Encode(&buf, doc))

	// Import into a different account.
	other := newSession(t)
	imported, err := backup.NewService(other).Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", imported.User.Email)

	_, want, err := m.Snapshot()
	require.NoError(t, err)

	_, got, err := other.Snapshot()
	require.NoError(t, err)

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)

	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)

	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestDecode_Tolerant(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		version string
	}

	tests := []testCase{
		{
			name:    "metadata version and missing arrays",
			input:   `{"metadata":{"version":"0.9"},"data":{"tasks":[{"id":1,"title":"a","status":"todo"}]},"extra":{"x":1}}`,
			version: "0.9",
		},
		{
			name:    "numeric version",
			input:   `{"version":1,"data":{}}`,
			version: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := backup.Decode(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.version, doc.Version)
			assert.NotNil(t, doc.Data.Transactions)
			assert.NotNil(t, doc.Data.Goals)
			assert.NotNil(t, doc.Data.TeamMembers)
		})
	}
}

func TestDecode_Charsets(t *testing.T) {
	doc := `{"version":"1.0","data":{"tasks":[{"id":1,"title":"Café com a equipa","status":"todo"}]}}`

	latin1, err := charmap.Windows1252.NewEncoder().String(doc)
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(doc)
	require.NoError(t, err)

	inputs := map[string]string{
		"utf8":     doc,
		"utf8 bom": "\xEF\xBB\xBF" + doc,
		"latin1":   latin1,
		"utf16":    utf16,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := backup.Decode(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, got.Data.Tasks, 1)
			assert.Equal(t, "Café com a equipa", got.Data.Tasks[0].Title)
		})
	}
}

func TestImport_Rejects(t *testing.T) {
	type testCase struct {
		name  string
		input string
	}

	tests := []testCase{
		{name: "not json", input: "hello"},
		{name: "missing data", input: `{"version":"1.0"}`},
		{name: "data not an object", input: `{"version":"1.0","data":[]}`},
		{name: "missing version", input: `{"data":{"tasks":[]}}`},
		{name: "bad field type", input: `{"version":"1.0","data":{"tasks":"nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newSession(t)
			require.NoError(t, m.ReplaceData(ctx, sampleData()))

			_, err := backup.NewService(m).Import(ctx, strings.NewReader(tt.input))

			var ferr *backup.ImportFormatError
			require.ErrorAs(t, err, &ferr)

			_, data, err := m.Snapshot()
			require.NoError(t, err)
			assert.Len(t, data.Tasks, 1)
			assert.Equal(t, "Pay rent", data.Tasks[0].Title)
		})
	}
}

func TestImport_FlatRecords(t *testing.T) {
	input := `{
		"metadata": {"version": "1.0", "exportDate": "2024-03-10T12:00:00.000Z"},
		"data": {
			"tasks": [
				{"id": 1, "title": "Dated", "priority": "high", "deadline": "2025-07-15", "status": "todo", "createdAt": "2024-03-01T09:00:00.000Z"},
				{"id": 2, "title": "Undated", "priority": "low", "deadline": "", "status": "todo", "createdAt": "2024-03-01T09:00:00.000Z"}
			],
			"goals": [
				{"id": 1, "name": "Trip", "type": "financial", "amount": 5000, "deadline": "2025-11-15", "currentAmount": 100, "progress": 0, "createdAt": "2024-03-01T09:00:00.000Z"},
				{"id": 2, "name": "English", "type": "personal", "amount": null, "deadline": "2025-09-30", "currentAmount": 0, "progress": 35, "createdAt": "2024-03-01T09:00:00.000Z"}
			]
		}
	}`

	ctx := context.Background()
	m := newSession(t)

	doc, err := backup.NewService(m).Import(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", doc.ExportDate.Format(time.DateOnly))

	_, data, err := m.Snapshot()
	require.NoError(t, err)

	require.Len(t, data.Tasks, 2)
	require.NotNil(t, data.Tasks[0].Deadline)
	assert.Equal(t, "2025-07-15", data.Tasks[0].Deadline.Format(time.DateOnly))
	assert.Nil(t, data.Tasks[1].Deadline)

	require.Len(t, data.Goals, 2)

	trip := data.Goals[0]
	require.NotNil(t, trip.Financial)
	assert.True(t, decimal.NewFromInt(5000).Equal(trip.Financial.Amount))
	assert.True(t, decimal.NewFromInt(100).Equal(trip.Financial.CurrentAmount))
	assert.False(t, trip.IsCompleted())
	assert.InDelta(t, 2, trip.Progress(), 1e-9)
	assert.Equal(t, "2025-11-15", trip.Deadline.Format(time.DateOnly))

	english := data.Goals[1]
	require.NotNil(t, english.Personal)
	assert.Nil(t, english.Financial)
	assert.InDelta(t, 35, english.Personal.Progress, 1e-9)

	assert.False(t, data.Achievements.Has("goal_achiever"))
}
