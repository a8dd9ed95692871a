package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso passthrough", "2024-03-09", "2024-03-09"},
		{"slash is day first", "09/03/2024", "2024-03-09"},
		{"slash single digits", "9/3/2024", "2024-03-09"},
		{"timestamp", "2024-03-09 00:00:00", "2024-03-09"},
		{"month name", "Mar 9, 2024", "2024-03-09"},
		{"day first month name", "9 Mar 2024", "2024-03-09"},
		{"slash iso order", "2024/03/09", "2024-03-09"},
		{"garbage comes back raw", "last week", "last week"},
		{"empty comes back raw", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}
