package forms

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Flag is an amenity value as submitted: "on" from a checkbox, "true" or
// "1" from a script, or a JSON boolean. It is turned into a bool once, by
// CafeForm.Input.
type Flag string

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flag(s)
		return nil
	}
	// true, false and numbers are kept as their literal text.
	*f = Flag(b)
	return nil
}

func (f *Flag) UnmarshalText(b []byte) error {
	*f = Flag(b)
	return nil
}

// Bool reports whether the submitted value means "yes".
func (f Flag) Bool() bool {
	switch strings.ToLower(strings.TrimSpace(string(f))) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}
