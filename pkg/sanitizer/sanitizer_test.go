package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/servicebond/pkg/sanitizer"
)

func TestApplyAndCompose(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello world", sanitizer.Apply("  Hello\n\tWORLD ", sanitizer.SingleLine, strings.ToLower))

	clean := sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.SingleLine)
	assert.Equal(t, "Main St 5", clean("Main\x00 St\r\n 5"))
	assert.Equal(t, "x", sanitizer.Apply("x"))
}

func TestNormalizers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"email", sanitizer.NormalizeEmail, "  Owner@Shop.COM ", "owner@shop.com"},
		{"phone international", sanitizer.NormalizePhone, "+1 (555) 123-4567", "+15551234567"},
		{"phone inner plus dropped", sanitizer.NormalizePhone, "555+123", "555123"},
		{"postal code", sanitizer.NormalizePostalCode, " sw1a 1aa ", "SW1A1AA"},
		{"trim lower", sanitizer.TrimToLower, " JDoe ", "jdoe"},
		{"trim", sanitizer.Trim, "\tx\n", "x"},
		{"control chars keep tabs", sanitizer.RemoveControlChars, "a\x07b\tc", "ab\tc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}
