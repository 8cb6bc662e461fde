package validation

import (
	"encoding/json"
	"errors"
	"io"
	"time"
)

// Kind selects which field rules apply: Create requires title and author,
// Update treats every field as optional.
type Kind int

const (
	Create Kind = iota
	Update
)

// ErrMalformed marks a request body that is not well-formed JSON, as
// opposed to one that parsed but failed field validation.
var ErrMalformed = errors.New("request body is not valid JSON")

// BookInput is a validated, normalized payload. Pointer fields distinguish
// "not provided" from a zero value, which Update relies on.
type BookInput struct {
	Title         *string
	Author        *string
	PublishedDate *string
	Price         *float64
	Summary       *string
}

// Decode parses a request body into an untyped payload. Any parse failure
// is reported as ErrMalformed.
func Decode(r io.Reader) (map[string]any, error) {
	var payload map[string]any

	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, ErrMalformed
	}
	if payload == nil {
		return nil, ErrMalformed
	}

	return payload, nil
}

type fieldRule struct {
	field string
	check func(kind Kind, payload map[string]any, in *BookInput, errs *ErrorSet)
}

// Rules run in a fixed order and every failure is collected, so a single
// response reports all problems at once. Unknown payload fields are ignored.
var bookRules = []fieldRule{
	{"title", checkTitle},
	{"author", checkAuthor},
	{"published_date", checkPublishedDate},
	{"price", checkPrice},
	{"summary", checkSummary},
}

// Validate applies the book field rules to an untyped payload. It returns
// either a normalized input or the full set of field violations.
func Validate(kind Kind, payload map[string]any) (*BookInput, *ErrorSet) {
	in := &BookInput{}
	errs := NewErrorSet()

	for _, rule := range bookRules {
		rule.check(kind, payload, in, errs)
	}

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}

func checkTitle(kind Kind, payload map[string]any, in *BookInput, errs *ErrorSet) {
	in.Title = requiredString(kind, payload, "title", errs)
}

func checkAuthor(kind Kind, payload map[string]any, in *BookInput, errs *ErrorSet) {
	in.Author = requiredString(kind, payload, "author", errs)
}

// requiredString enforces "required non-empty" on Create and
// "non-empty if present" on Update.
func requiredString(kind Kind, payload map[string]any, field string, errs *ErrorSet) *string {
	raw, ok := payload[field]
	if !ok {
		if kind == Create {
			errs.Add(field, "is required")
		}
		return nil
	}

	s, ok := raw.(string)
	if !ok {
		errs.Add(field, "must be a string")
		return nil
	}
	if s == "" {
		errs.Add(field, "must not be empty")
		return nil
	}

	return &s
}

func checkPublishedDate(_ Kind, payload map[string]any, in *BookInput, errs *ErrorSet) {
	raw, ok := payload["published_date"]
	if !ok || raw == nil {
		return
	}

	s, ok := raw.(string)
	if !ok {
		errs.Add("published_date", "must be a string in YYYY-MM-DD format")
		return
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		errs.Add("published_date", "must be a valid date in YYYY-MM-DD format")
		return
	}

	in.PublishedDate = &s
}

func checkPrice(_ Kind, payload map[string]any, in *BookInput, errs *ErrorSet) {
	raw, ok := payload["price"]
	if !ok || raw == nil {
		return
	}

	n, ok := raw.(float64)
	if !ok {
		errs.Add("price", "must be a number")
		return
	}
	if n < 0 {
		errs.Add("price", "must not be negative")
		return
	}

	in.Price = &n
}

func checkSummary(_ Kind, payload map[string]any, in *BookInput, errs *ErrorSet) {
	raw, ok := payload["summary"]
	if !ok || raw == nil {
		return
	}

	s, ok := raw.(string)
	if !ok {
		errs.Add("summary", "must be a string")
		return
	}

	in.Summary = &s
}
