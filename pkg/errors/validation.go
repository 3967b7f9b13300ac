package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCategoryName validates a category (folder) name before it is used
// as an output file name. It rejects names that could escape the output
// directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or parent references
//   - Maximum length of 200 characters
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidCategory, "category name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidCategory, "category name too long (max 200 bytes)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCategory, "category name contains control characters")
		}
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidCategory, "category name cannot be %q", name)
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidCategory, "category name cannot contain path separators")
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colour literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a colour literal as written in settings files.
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rrggbb)", s)
	}
	return nil
}
