package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NoteID identifies a note. It is assigned by the remote API and never
// changes after creation.
type NoteID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *NoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NoteID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid note id %s: %w", data, err)
	}
	*id = NoteID(n.String())
	return nil
}

// String implements fmt.Stringer.
func (id NoteID) String() string { return string(id) }

// Tag is the category of a note. Only the values returned by Tags are valid.
type Tag string

const (
	TagTodo     Tag = "Todo"
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
)

var tags = []Tag{TagTodo, TagWork, TagPersonal, TagMeeting, TagShopping}

// Tags returns the fixed tag set in display order.
func Tags() []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}

// Valid reports whether t belongs to the tag set.
func (t Tag) Valid() bool {
	for _, v := range tags {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTag resolves s to a Tag, ignoring case and surrounding space.
func ParseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	for _, v := range tags {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q: %w", s, ErrValidation)
}

// Note is the central entity of the domain.
// Timestamps and ID are owned by the remote API; the client never edits a
// Note in place, it re-reads the collection after every mutation.
type Note struct {
	ID        NoteID    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft is the payload of a note creation.
type Draft struct {
	Title   string `json:"title" validate:"required,min=3,max=50"`
	Content string `json:"content" validate:"max=500"`
	Tag     Tag    `json:"tag" validate:"required,notetag"`
}
