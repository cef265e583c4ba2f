// Package export writes notes out as single-part RFC 5322 messages (.eml)
// that any mail client can open.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/natefinch/atomic"

	"github.com/nhle/notebook/internal/model"
)

// Header names carrying note metadata.
const (
	HeaderID      = "X-Notebook-Id"
	HeaderType    = "X-Notebook-Type"
	HeaderPrivate = "X-Notebook-Private"
)

// Values of HeaderType.
const (
	TypeText      = "text"
	TypeChecklist = "checklist"
)

// WriteNote writes note as a text/plain message to w. For checklist notes
// the body is one "[ ] title" or "[x] title" line per item; otherwise it
// is the note content. Line endings in the body are written as CRLF, so
// readers that want the original text must map "\r\n" back to "\n".
func WriteNote(w io.Writer, note model.Note, items []model.ChecklistItem, from string) error {
	sender, err := mail.ParseAddress(from)
	if err != nil {
		return fmt.Errorf("parsing from address %q: %w", from, err)
	}

	var h mail.Header
	h.SetDate(note.Date)
	h.SetSubject(note.Title)
	h.SetAddressList("From", []*mail.Address{sender})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set(HeaderID, strconv.FormatInt(note.ID, 10))
	h.Set(HeaderType, noteType(note))
	h.Set(HeaderPrivate, strconv.FormatBool(note.IsPrivate))

	body, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}
	if _, err := io.WriteString(body, Body(note, items)); err != nil {
		body.Close()
		return fmt.Errorf("writing body: %w", err)
	}
	return body.Close()
}

// WriteFile exports note to path. The file is replaced atomically so a
// failed export never leaves a partial file behind.
func WriteFile(path string, note model.Note, items []model.ChecklistItem, from string) error {
	var buf bytes.Buffer
	if err := WriteNote(&buf, note, items, from); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Body renders the plain text body of note with "\n" line endings.
// WriteNote converts them to CRLF on the wire.
func Body(note model.Note, items []model.ChecklistItem) string {
	if !note.IsChecklist {
		return note.Content
	}

	var b strings.Builder
	for _, item := range items {
		mark := " "
		if item.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %s\n", mark, item.Title)
	}
	return b.String()
}

// FileName suggests a file name for an exported note.
func FileName(note model.Note) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(note.Title))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "note"
	}
	return fmt.Sprintf("%d-%s.eml", note.ID, slug)
}

func noteType(note model.Note) string {
	if note.IsChecklist {
		return TypeChecklist
	}
	return TypeText
}
