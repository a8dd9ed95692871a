package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		guessed bool
	}{
		{"plain integer", "1234", 1234, false},
		{"plain decimal", "12.5", 12.5, false},
		{"us format both separators", "1,234.56", 1234.56, false},
		{"european format both separators", "1.234,56", 1234.56, false},
		{"comma decimal", "1234,5", 1234.5, true},
		{"comma thousands only", "1,234,567", 1234567, true},
		{"dot thousands only", "2.500", 2500, true},
		{"multiple dot groups", "1.234.567", 1234567, true},
		{"euro symbol stripped", "€1.234,56", 1234.56, false},
		{"dollar and spaces stripped", "$ 1,234.56", 1234.56, false},
		{"percent stripped", "12.5%", 12.5, false},
		{"empty string", "", 0, true},
		{"garbage", "n/a", 0, true},
		{"zero", "0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, guessed := ParseNumber(tt.input)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.Equal(t, tt.guessed, guessed)
		})
	}
}
