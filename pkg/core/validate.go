package core

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// fieldOrder fixes the order in which errors are reported.
var fieldOrder = map[string]int{"title": 0, "content": 1, "tag": 2}

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		// Report JSON names (title, content, tag) instead of Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("notetag", func(fl validator.FieldLevel) bool {
			return Tag(fl.Field().String()).Valid()
		})

		validate = v
	})
	return validate
}

// ValidateDraft checks a Draft against the creation contract:
// title 3..50 characters and required, content at most 500 characters,
// tag one of Tags. It returns nil or a *ValidationError.
func ValidateDraft(d Draft) error {
	err := draftValidator().Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "draft", Rule: "invalid", Message: err.Error()}}}
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe.Tag()),
		})
	}

	sortFields(out.Fields)
	return out
}

func messageFor(rule string) string {
	switch rule {
	case "required":
		return "Required"
	case "min":
		return "Too Short!"
	case "max":
		return "Too Long!"
	case "notetag":
		return "Invalid tag"
	default:
		return "Invalid value"
	}
}

func sortFields(fields []FieldError) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fieldOrder[fields[i].Field] < fieldOrder[fields[j].Field]
	})
}
