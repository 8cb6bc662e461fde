package validation

import (
	"bytes"
	"encoding/json"
)

// ErrorSet collects field-level violations in the order the fields were
// first reported, so clients see errors in schema order rather than in
// Go's randomized map order.
type ErrorSet struct {
	fields   []string
	messages map[string][]string
}

func NewErrorSet() *ErrorSet {
	return &ErrorSet{messages: make(map[string][]string)}
}

func (e *ErrorSet) Add(field, message string) {
	if _, seen := e.messages[field]; !seen {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], message)
}

func (e *ErrorSet) Empty() bool {
	return len(e.fields) == 0
}

func (e *ErrorSet) Fields() []string {
	return e.fields
}

func (e *ErrorSet) Messages(field string) []string {
	return e.messages[field]
}

func (e *ErrorSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, field := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		msgs, err := json.Marshal(e.messages[field])
		if err != nil {
			return nil, err
		}
		buf.Write(msgs)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
