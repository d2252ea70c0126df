package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aretw0/notehub/pkg/core"
)

func TestValidateDraft_TitleBoundaries(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{50, true},
		{51, false},
	}

	for _, tt := range tests {
		d := core.Draft{Title: strings.Repeat("a", tt.length), Tag: core.TagTodo}
		err := core.ValidateDraft(d)
		if tt.valid && err != nil {
			t.Errorf("title length %d: expected valid, got %v", tt.length, err)
		}
		if !tt.valid && !errors.Is(err, core.ErrValidation) {
			t.Errorf("title length %d: expected validation error, got %v", tt.length, err)
		}
	}
}

func TestValidateDraft_ContentBoundaries(t *testing.T) {
	ok := core.Draft{Title: "Title", Content: strings.Repeat("c", 500), Tag: core.TagWork}
	if err := core.ValidateDraft(ok); err != nil {
		t.Errorf("500 chars: expected valid, got %v", err)
	}

	tooLong := core.Draft{Title: "Title", Content: strings.Repeat("c", 501), Tag: core.TagWork}
	err := core.ValidateDraft(tooLong)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("501 chars: expected ValidationError, got %v", err)
	}
	want := []core.FieldError{{Field: "content", Rule: "max", Message: "Too Long!"}}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDraft_CountsCharactersNotBytes(t *testing.T) {
	d := core.Draft{Title: strings.Repeat("é", 50), Tag: core.TagPersonal}
	if err := core.ValidateDraft(d); err != nil {
		t.Errorf("50 two-byte characters should be valid, got %v", err)
	}
}

func TestValidateDraft_Tag(t *testing.T) {
	for _, tag := range core.Tags() {
		if err := core.ValidateDraft(core.Draft{Title: "Title", Tag: tag}); err != nil {
			t.Errorf("tag %q: expected valid, got %v", tag, err)
		}
	}

	for _, tag := range []core.Tag{"", "todo", "Urgent", "personal"} {
		if err := core.ValidateDraft(core.Draft{Title: "Title", Tag: tag}); !errors.Is(err, core.ErrValidation) {
			t.Errorf("tag %q: expected validation error, got %v", tag, err)
		}
	}
}

func TestValidateDraft_ReportsFieldsInOrder(t *testing.T) {
	err := core.ValidateDraft(core.Draft{Content: strings.Repeat("x", 501), Tag: "Nope"})

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []core.FieldError{
		{Field: "title", Rule: "required", Message: "Required"},
		{Field: "content", Rule: "max", Message: "Too Long!"},
		{Field: "tag", Rule: "notetag", Message: "Invalid tag"},
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
