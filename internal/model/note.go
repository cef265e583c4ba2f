package model

import "time"

// DateLayout is the on-disk format of Note.Date. Values are UTC with
// millisecond precision, so lexical order equals chronological order.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Note is a user-authored record, either free text or a checklist.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Date        time.Time `json:"date"`
	IsPrivate   bool      `json:"isPrivate"`
	IsChecklist bool      `json:"isChecklist"`
	Color       *string   `json:"color,omitempty"`
}

// NoteInput carries the fields accepted when creating a note.
// Unset booleans default to false.
type NoteInput struct {
	Title       string
	Content     string
	IsPrivate   bool
	IsChecklist bool
}

// NotePatch is a partial update. Nil fields keep their stored value.
type NotePatch struct {
	Title       *string
	Content     *string
	IsPrivate   *bool
	IsChecklist *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.IsPrivate == nil && p.IsChecklist == nil
}

// Apply returns n with the patch fields merged in. Date and ID are never touched.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.IsPrivate != nil {
		n.IsPrivate = *p.IsPrivate
	}
	if p.IsChecklist != nil {
		n.IsChecklist = *p.IsChecklist
	}
	return n
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a stored date. RFC 3339 values written by other
// clients are accepted too.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
