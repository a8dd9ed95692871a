package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{"seven day window shifts back seven days", "2024-03-08", "2024-03-14", "2024-03-01", "2024-03-07"},
		{"single day compares to the day before", "2024-03-14", "2024-03-14", "2024-03-13", "2024-03-13"},
		{"calendar month compares to prior calendar month", "2024-03-01", "2024-03-31", "2024-02-01", "2024-02-29"},
		{"january rolls back to december", "2024-01-01", "2024-01-31", "2023-12-01", "2023-12-31"},
		// February 2024 has 29 days; the comparison window is January's
		// full 31 days, not a 29-day slice of it.
		{"short month compares to full prior month", "2024-02-01", "2024-02-29", "2024-01-01", "2024-01-31"},
		// A month-length window that is not first-through-last shifts by
		// plain day count.
		{"mid-month 31 days shifts by 31 days", "2024-03-05", "2024-04-04", "2024-02-03", "2024-03-04"},
		{"partial month is not a calendar month", "2024-03-01", "2024-03-30", "2024-01-31", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd, err := PreviousPeriod(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, gotStart)
			assert.Equal(t, tt.wantEnd, gotEnd)
		})
	}

	t.Run("malformed dates error", func(t *testing.T) {
		_, _, err := PreviousPeriod("03/01/2024", "2024-03-31")
		assert.Error(t, err)
	})
}
