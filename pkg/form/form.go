// Package form holds the input state of the "create note" form.
//
// The form is a pure input/validation unit: it never talks to the network.
// On Submit it hands the validated core.Draft to a caller-supplied handler,
// which owns the actual create call.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/notehub/pkg/core"
)

// Field names, matching the JSON names reported by core.ValidateDraft.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTag     = "tag"
)

// Fields lists the form fields in display order.
var Fields = []string{FieldTitle, FieldContent, FieldTag}

// State is the lifecycle of a form.
type State int

const (
	StatePristine State = iota
	StateEditing
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StatePristine:
		return "pristine"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrPristine     = errors.New("nothing to submit: form is unchanged")
	ErrSubmitting   = errors.New("form is already submitting")
	ErrUnknownField = errors.New("unknown form field")
)

// Touched records which fields the user has interacted with.
type Touched struct {
	Title   bool
	Content bool
	Tag     bool
}

// Handler receives a validated draft. Returning an error puts the form back
// into editing so the user can retry.
type Handler func(ctx context.Context, d core.Draft) error

// Form is safe for concurrent use; the handler runs without the lock held.
type Form struct {
	mu      sync.Mutex
	initial core.Draft
	values  core.Draft
	touched Touched
	state   State
	errs    []core.FieldError
}

// DefaultValues are the initial values of a new form.
func DefaultValues() core.Draft {
	return core.Draft{Tag: core.TagTodo}
}

// New creates a pristine form with DefaultValues.
func New() *Form {
	return NewWithValues(DefaultValues())
}

// NewWithValues creates a pristine form with the given initial values.
func NewWithValues(initial core.Draft) *Form {
	f := &Form{initial: initial, values: initial}
	f.validate()
	return f
}

// Set updates a field, marks it touched and revalidates.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldTitle:
		f.values.Title = value
	case FieldContent:
		f.values.Content = value
	case FieldTag:
		f.values.Tag = core.Tag(value)
	default:
		return ErrUnknownField
	}
	f.touch(field)
	f.validate()
	return nil
}

// Blur marks a field touched without changing it.
func (f *Form) Blur(field string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldTitle, FieldContent, FieldTag:
	default:
		return ErrUnknownField
	}
	f.touch(field)
	return nil
}

func (f *Form) touch(field string) {
	switch field {
	case FieldTitle:
		f.touched.Title = true
	case FieldContent:
		f.touched.Content = true
	case FieldTag:
		f.touched.Tag = true
	}
	if f.state == StatePristine {
		f.state = StateEditing
	}
}

func (f *Form) validate() {
	f.errs = nil
	var verr *core.ValidationError
	if err := core.ValidateDraft(f.values); errors.As(err, &verr) {
		f.errs = verr.Fields
	}
}

func (f *Form) isTouched(field string) bool {
	switch field {
	case FieldTitle:
		return f.touched.Title
	case FieldContent:
		return f.touched.Content
	case FieldTag:
		return f.touched.Tag
	}
	return false
}

// Values returns the current values.
func (f *Form) Values() core.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Touched returns the touched flags.
func (f *Form) Touched() Touched {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Errors returns every current field error.
func (f *Form) Errors() []core.FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.FieldError(nil), f.errs...)
}

// VisibleErrors returns errors of touched fields only.
func (f *Form) VisibleErrors() []core.FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.FieldError
	for _, e := range f.errs {
		if f.isTouched(e.Field) {
			out = append(out, e)
		}
	}
	return out
}

// FieldError returns the visible error message of a field, or "".
func (f *Form) FieldError(field string) string {
	for _, e := range f.VisibleErrors() {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Valid reports whether the current values pass validation.
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs) == 0
}

// Dirty reports whether any field differs from its initial value.
func (f *Form) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values != f.initial
}

// CanSubmit reports whether the submit control should be enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs) == 0 && f.values != f.initial && f.state != StateSubmitting
}

// Submit validates the form and calls handler with the draft.
// Invalid values leave the form editing and return a *core.ValidationError
// without calling handler.
func (f *Form) Submit(ctx context.Context, handler Handler) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmitting
	}

	f.touched = Touched{Title: true, Content: true, Tag: true}
	f.validate()
	if len(f.errs) > 0 {
		f.state = StateEditing
		err := &core.ValidationError{Fields: append([]core.FieldError(nil), f.errs...)}
		f.mu.Unlock()
		return err
	}
	if f.values == f.initial {
		f.state = StateEditing
		f.mu.Unlock()
		return ErrPristine
	}

	f.state = StateSubmitting
	draft := f.values
	f.mu.Unlock()

	err := handler(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		return err
	}
	f.state = StateSubmitted
	return nil
}

// Reset restores the initial values and the pristine state.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = f.initial
	f.touched = Touched{}
	f.state = StatePristine
	f.validate()
}
