package errors

import (
	"strings"
	"unicode/utf8"
)

// MaxLabelLength bounds node names accepted from external producers.
const MaxLabelLength = 512

// ValidateLabel validates a node label received over the network.
//
// Validation rules:
//   - No empty or whitespace-only labels
//   - No null bytes
//   - Valid UTF-8
//   - Maximum length of MaxLabelLength runes
//
// Newlines and tabs are allowed; the scene draws them as spaces.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}
	if !utf8.ValidString(label) {
		return New(ErrCodeInvalidInput, "label is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(label); n > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (%d runes, max %d)", n, MaxLabelLength)
	}
	if strings.ContainsRune(label, '\x00') {
		return New(ErrCodeInvalidInput, "label contains a null byte")
	}
	return nil
}
