package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FieldError is one validation failure. Field is empty for form-wide errors.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// FieldErrors is the list of field-scoped errors produced by client-side
// validation or returned by the backend next to a rejection message.
//
// The backend is not consistent about the shape of "errors"; UnmarshalJSON
// accepts a list of strings, a list of {field|path|param, msg|message}
// objects, or an object mapping field names to a string or list of strings.
type FieldErrors []FieldError

// Add appends a field error.
func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// For returns the messages attached to field.
func (fe FieldErrors) For(field string) []string {
	var out []string
	for _, e := range fe {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Messages flattens the list into display strings.
func (fe FieldErrors) Messages() []string {
	out := make([]string, 0, len(fe))
	for _, e := range fe {
		out = append(out, e.String())
	}
	return out
}

func (fe FieldErrors) Error() string {
	return strings.Join(fe.Messages(), "; ")
}

type fieldErrorObject struct {
	Field   string `json:"field"`
	Path    string `json:"path"`
	Param   string `json:"param"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func (o fieldErrorObject) toFieldError() FieldError {
	e := FieldError{Field: o.Field, Message: o.Message}
	if e.Field == "" {
		e.Field = o.Path
	}
	if e.Field == "" {
		e.Field = o.Param
	}
	if e.Message == "" {
		e.Message = o.Msg
	}
	return e
}

func (fe *FieldErrors) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*fe = nil
		return nil
	}

	switch b[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make(FieldErrors, 0, len(raw))
		for _, item := range raw {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				out = append(out, FieldError{Message: s})
				continue
			}
			var obj fieldErrorObject
			if err := json.Unmarshal(item, &obj); err != nil {
				return fmt.Errorf("unsupported field error %s: %w", item, err)
			}
			out = append(out, obj.toFieldError())
		}
		*fe = out
		return nil

	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		fields := make([]string, 0, len(raw))
		for k := range raw {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		var out FieldErrors
		for _, field := range fields {
			var s string
			if err := json.Unmarshal(raw[field], &s); err == nil {
				out = append(out, FieldError{Field: field, Message: s})
				continue
			}
			var list []string
			if err := json.Unmarshal(raw[field], &list); err != nil {
				return fmt.Errorf("unsupported errors for field %q: %w", field, err)
			}
			for _, s := range list {
				out = append(out, FieldError{Field: field, Message: s})
			}
		}
		*fe = out
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*fe = FieldErrors{{Message: s}}
		return nil
	}

	return fmt.Errorf("unsupported errors payload %s", b)
}
