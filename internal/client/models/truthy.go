package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Truthy decodes loosely typed backend flags into a strict boolean.
//
// JSON true, non-zero numbers, and non-empty strings other than "0"/"false"
// are true; false, 0, "", "0", "false" and null are false.
type Truthy bool

func (t *Truthy) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = false
		return nil
	}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case bool:
		*t = Truthy(value)
	case float64:
		*t = value != 0
	case string:
		s := strings.TrimSpace(strings.ToLower(value))
		if parsed, err := strconv.ParseBool(s); err == nil {
			*t = Truthy(parsed)
		} else {
			*t = s != "" && s != "0"
		}
	default:
		*t = true
	}
	return nil
}
