package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// Int is an integer that also decodes from a numeric JSON string.
type Int int

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(b []byte) error {
	s, quoted := unquote(b)
	if quoted && strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil {
			return fmt.Errorf("invalid integer %s", b)
		}
		n = int(f)
	}
	*i = Int(n)
	return nil
}

// Float is a number that also decodes from a numeric JSON string.
type Float float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(b []byte) error {
	s, quoted := unquote(b)
	if quoted && strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	*f = Float(v)
	return nil
}

// Bool is a boolean that also decodes from "true", "false", "1" and "0".
type Bool bool

// UnmarshalJSON implements json.Unmarshaler.
func (v *Bool) UnmarshalJSON(b []byte) error {
	s, quoted := unquote(b)
	if quoted && strings.TrimSpace(s) == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid boolean %s", b)
	}
	*v = Bool(parsed)
	return nil
}

// unquote returns the JSON string contents of b, or b itself for bare
// values. null reads as an empty quoted string so it leaves the field as is.
func unquote(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return "", true
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return s, true
		}
	}
	return string(b), false
}

// TitleAlign positions the category title horizontally.
type TitleAlign int

const (
	TitleCenter TitleAlign = iota
	TitleLeft
	TitleRight
)

// String returns the alignment as written in sidecars.
func (a TitleAlign) String() string {
	switch a {
	case TitleLeft:
		return "left"
	case TitleRight:
		return "right"
	}
	return "center"
}

// MarshalText implements encoding.TextMarshaler.
func (a TitleAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *TitleAlign) UnmarshalText(b []byte) error {
	v, err := ParseTitleAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseTitleAlign parses left, center or right, including the labels of
// older sidecars (左对齐, 居中, 右对齐).
func ParseTitleAlign(s string) (TitleAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "centre", "居中":
		return TitleCenter, nil
	case "left", "左对齐":
		return TitleLeft, nil
	case "right", "右对齐":
		return TitleRight, nil
	}
	return TitleCenter, errors.New(errors.ErrCodeInvalidInput, "invalid title alignment %q (must be left, center or right)", s)
}
