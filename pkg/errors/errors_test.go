package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeAssetMissing, cause, "open photo")

	if err.Code != ErrCodeAssetMissing {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAssetMissing)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeLayoutInfeasible, "test"),
			code:     ErrCodeLayoutInfeasible,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeLayoutInfeasible, "test"),
			code:     ErrCodeAssetMissing,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFontUnresolved, New(ErrCodeNotFound, "inner"), "outer"),
			code:     ErrCodeFontUnresolved,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeConfigMalformed, "x")); got != ErrCodeConfigMalformed {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeConfigMalformed)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no photos in %s", "A")); got != "no photos in A" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeAssetMissing, true},
		{ErrCodeFontUnresolved, true},
		{ErrCodeConfigMalformed, true},
		{ErrCodeLayoutInfeasible, false},
		{ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Recoverable(New(tt.code, "x")); got != tt.want {
				t.Errorf("Recoverable(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
