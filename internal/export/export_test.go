package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notebook/internal/model"
)

type parsed struct {
	header *mail.Header
	body   string
}

func parse(t *testing.T, r io.Reader) parsed {
	t.Helper()

	mr, err := mail.CreateReader(r)
	require.NoError(t, err)
	defer mr.Close()

	part, err := mr.NextPart()
	require.NoError(t, err)
	_, ok := part.Header.(*mail.InlineHeader)
	require.True(t, ok, "expected inline part, got %T", part.Header)

	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)

	// Message bodies are CRLF on the wire.
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	return parsed{header: &mr.Header, body: text}
}

var noteDate = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func TestWriteNote_Text(t *testing.T) {
	note := model.Note{
		ID:        7,
		Title:     "Trip plan",
		Content:   "Book flights.\nRent a car.",
		Date:      noteDate,
		IsPrivate: true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteNote(&buf, note, nil, "me@example.com"))

	msg := parse(t, &buf)
	subject, err := msg.header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Trip plan", subject)

	date, err := msg.header.Date()
	require.NoError(t, err)
	assert.True(t, noteDate.Equal(date), "date %v", date)

	from, err := msg.header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "me@example.com", from[0].Address)

	assert.Equal(t, "7", msg.header.Get(HeaderID))
	assert.Equal(t, TypeText, msg.header.Get(HeaderType))
	assert.Equal(t, "true", msg.header.Get(HeaderPrivate))
	assert.Equal(t, note.Content, msg.body)
}

func TestWriteNote_Checklist(t *testing.T) {
	note := model.Note{ID: 3, Title: "Groceries", Date: noteDate, IsChecklist: true}
	items := []model.ChecklistItem{
		{ID: 1, NoteID: 3, Title: "Milk", IsCompleted: true, OrderIndex: 1},
		{ID: 2, NoteID: 3, Title: "Eggs", OrderIndex: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteNote(&buf, note, items, "me@example.com"))

	msg := parse(t, &buf)
	assert.Equal(t, TypeChecklist, msg.header.Get(HeaderType))
	assert.Equal(t, "false", msg.header.Get(HeaderPrivate))
	assert.Equal(t, "[x] Milk\n[ ] Eggs\n", msg.body)
}

func TestWriteNote_CRLFOnWire(t *testing.T) {
	note := model.Note{ID: 2, Title: "Lines", Content: "one\ntwo", Date: noteDate}

	var buf bytes.Buffer
	require.NoError(t, WriteNote(&buf, note, nil, "me@example.com"))

	raw := buf.String()
	assert.Contains(t, raw, "one\r\ntwo")
	assert.NotContains(t, raw, "one\ntwo")
	assert.Equal(t, "one\ntwo", parse(t, strings.NewReader(raw)).body)
}

func TestWriteNote_BadFrom(t *testing.T) {
	var buf bytes.Buffer
	err := WriteNote(&buf, model.Note{Title: "x"}, nil, "not an address")
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.eml")
	note := model.Note{ID: 1, Title: "Hello", Content: "World", Date: noteDate}

	require.NoError(t, WriteFile(path, note, nil, "me@example.com"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "World", parse(t, f).body)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "4-trip-plan.eml", FileName(model.Note{ID: 4, Title: "Trip plan"}))
	assert.Equal(t, "5-note.eml", FileName(model.Note{ID: 5, Title: "  "}))
	assert.Equal(t, "6-a-b.eml", FileName(model.Note{ID: 6, Title: "A/B!"}))
}
