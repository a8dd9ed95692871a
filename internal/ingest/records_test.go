package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverto/adreport/internal/models"
)

func testScope() Scope {
	return Scope{ClientID: "client-1", Platform: models.PlatformGoogle, AccountName: "Main"}
}

func TestBuildRecords(t *testing.T) {
	mapping := models.ColumnMapping{Date: "Day", Spend: "Cost (EUR)", Clicks: "Clicks"}

	t.Run("rows map through the scope", func(t *testing.T) {
		rows := []map[string]string{
			{"Day": "2024-01-01", "Cost (EUR)": "1.234,56", "Clicks": "42"},
		}
		records, err := BuildRecords(rows, mapping, testScope())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "client-1", records[0].ClientID)
		assert.Equal(t, models.PlatformGoogle, records[0].Platform)
		assert.Equal(t, "Main", records[0].AccountName)
		assert.InDelta(t, 1234.56, records[0].Spend, 0.001)
		assert.Equal(t, int64(42), records[0].Clicks)
	})

	t.Run("rows with unnormalizable dates are dropped", func(t *testing.T) {
		rows := []map[string]string{
			{"Day": "2024-01-01", "Cost (EUR)": "10"},
			{"Day": "Totals", "Cost (EUR)": "999"},
			{"Day": "02/01/2024", "Cost (EUR)": "20"},
		}
		records, err := BuildRecords(rows, mapping, testScope())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2024-01-01", records[0].Date)
		assert.Equal(t, "2024-01-02", records[1].Date)
	})

	t.Run("unmapped measures default to zero", func(t *testing.T) {
		rows := []map[string]string{{"Day": "2024-01-01", "Cost (EUR)": "10"}}
		records, err := BuildRecords(rows, mapping, testScope())
		require.NoError(t, err)
		assert.Zero(t, records[0].Impressions)
		assert.Zero(t, records[0].Conversions)
	})

	t.Run("mapping without date and spend is rejected", func(t *testing.T) {
		_, err := BuildRecords(nil, models.ColumnMapping{Date: "Day"}, testScope())
		assert.Error(t, err)
	})

	t.Run("invalid scope is rejected", func(t *testing.T) {
		_, err := BuildRecords(nil, mapping, Scope{ClientID: "c", Platform: "tiktok"})
		assert.Error(t, err)
	})
}

func TestSpreadRange(t *testing.T) {
	t.Run("total spreads evenly over inclusive days", func(t *testing.T) {
		records, err := SpreadRange(RangeEntry{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-10",
			Spend:     "310",
		}, testScope())
		require.NoError(t, err)
		require.Len(t, records, 10)
		for _, r := range records {
			assert.InDelta(t, 31.00, r.Spend, 0.001)
		}
		assert.Equal(t, "2024-01-01", records[0].Date)
		assert.Equal(t, "2024-01-10", records[9].Date)
	})

	t.Run("per-day value rounds to two decimals", func(t *testing.T) {
		records, err := SpreadRange(RangeEntry{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-03",
			Spend:     "100",
		}, testScope())
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, r := range records {
			assert.InDelta(t, 33.33, r.Spend, 0.001)
		}
	})

	t.Run("single day range", func(t *testing.T) {
		records, err := SpreadRange(RangeEntry{
			StartDate: "2024-01-05",
			EndDate:   "2024-01-05",
			Spend:     "99.99",
		}, testScope())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.InDelta(t, 99.99, records[0].Spend, 0.001)
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		_, err := SpreadRange(RangeEntry{
			StartDate: "2024-01-10",
			EndDate:   "2024-01-01",
			Spend:     "10",
		}, testScope())
		assert.Error(t, err)
	})

	t.Run("missing spend is rejected", func(t *testing.T) {
		_, err := SpreadRange(RangeEntry{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-02",
		}, testScope())
		assert.Error(t, err)
	})
}

func TestDailyRecords(t *testing.T) {
	entries := []DailyEntry{
		{Date: "2024-01-01", Spend: "12,5", Clicks: "10"},
		{Date: "not a date", Spend: "999"},
	}
	records, err := DailyRecords(entries, testScope())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 12.5, records[0].Spend, 0.001)
	assert.Equal(t, int64(10), records[0].Clicks)
}
