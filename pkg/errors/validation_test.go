package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Photosynthesis", false},
		{"unicode", "光合作用", false},
		{"with spaces", "Light reactions", false},
		{"newline", "Line one\nline two", false},
		{"tab", "a\tb", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"null byte", "foo\x00bar", true},
		{"invalid utf8", "foo\xffbar", true},
		{"too long", strings.Repeat("a", MaxLabelLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
