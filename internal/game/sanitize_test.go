package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Alice", "Alice"},
		{"trims whitespace", "  Bob  ", "Bob"},
		{"collapses runs", "a   b\t\tc", "a b c"},
		{"strips markup", "<b>Eve</b>", "Eve"},
		{"strips script entirely", "<script>alert(1)</script>", "alert1"},
		{"keeps unicode letters", "Zoë Müller", "Zoë Müller"},
		{"keeps allowed punctuation", "a_b.c-d", "a_b.c-d"},
		{"drops emoji and symbols", "x🔥y!?", "xy"},
		{"empty after cleaning", "<><>!!", ""},
		{"truncates to 24 runes", strings.Repeat("é", 40), strings.Repeat("é", 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}
