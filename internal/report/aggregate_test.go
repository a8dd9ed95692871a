package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverto/adreport/internal/models"
)

func rec(platform models.Platform, date string, spend, conversions float64) models.MetricRecord {
	return models.MetricRecord{
		ClientID:        "c1",
		Platform:        platform,
		Date:            date,
		Spend:           spend,
		Impressions:     1000,
		Clicks:          50,
		Conversions:     conversions,
		ConversionValue: spend * 2,
	}
}

func TestTotals(t *testing.T) {
	t.Run("sums and derives roas", func(t *testing.T) {
		totals := Totals([]models.MetricRecord{
			rec(models.PlatformGoogle, "2024-01-01", 100, 5),
			rec(models.PlatformMeta, "2024-01-02", 50, 2),
		})
		assert.InDelta(t, 150, totals.Spend, 0.001)
		assert.Equal(t, int64(2000), totals.Impressions)
		assert.Equal(t, int64(100), totals.Clicks)
		assert.InDelta(t, 7, totals.Conversions, 0.001)
		assert.InDelta(t, 300, totals.ConversionValue, 0.001)
		assert.InDelta(t, 2.0, totals.ROAS, 0.001)
	})

	t.Run("empty input is all zeros", func(t *testing.T) {
		totals := Totals(nil)
		assert.Zero(t, totals.Spend)
		assert.Zero(t, totals.ROAS)
	})

	t.Run("zero spend leaves roas zero", func(t *testing.T) {
		totals := Totals([]models.MetricRecord{{ConversionValue: 500}})
		assert.Zero(t, totals.ROAS)
	})

	t.Run("totals are additive over partitions", func(t *testing.T) {
		records := []models.MetricRecord{
			rec(models.PlatformGoogle, "2024-01-01", 100, 5),
			rec(models.PlatformGoogle, "2024-01-02", 75, 3),
			rec(models.PlatformMeta, "2024-01-01", 50, 2),
			rec(models.PlatformMeta, "2024-01-03", 25, 1),
		}
		whole := Totals(records)
		first := Totals(records[:2])
		second := Totals(records[2:])
		assert.InDelta(t, whole.Spend, first.Spend+second.Spend, 0.001)
		assert.Equal(t, whole.Clicks, first.Clicks+second.Clicks)
		assert.InDelta(t, whole.Conversions, first.Conversions+second.Conversions, 0.001)
		assert.InDelta(t, whole.ConversionValue, first.ConversionValue+second.ConversionValue, 0.001)
	})
}

func TestByPlatform(t *testing.T) {
	out := ByPlatform([]models.MetricRecord{
		rec(models.PlatformGoogle, "2024-01-01", 100, 5),
		rec(models.PlatformGoogle, "2024-01-02", 50, 2),
		rec(models.PlatformMeta, "2024-01-01", 30, 1),
	})
	require.Len(t, out, 2)
	assert.InDelta(t, 150, out[models.PlatformGoogle].Spend, 0.001)
	assert.InDelta(t, 30, out[models.PlatformMeta].Spend, 0.001)

	// A platform with no records is absent, not zero.
	out = ByPlatform([]models.MetricRecord{rec(models.PlatformGoogle, "2024-01-01", 10, 0)})
	_, ok := out[models.PlatformMeta]
	assert.False(t, ok)
}

func TestByDate(t *testing.T) {
	points := ByDate([]models.MetricRecord{
		rec(models.PlatformMeta, "2024-01-02", 20, 1),
		rec(models.PlatformGoogle, "2024-01-01", 10, 2),
		rec(models.PlatformGoogle, "2024-01-02", 5, 1),
	})
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, "2024-01-02", points[1].Date)
	assert.InDelta(t, 25, points[1].Spend, 0.001)
	assert.InDelta(t, 2, points[1].Conversions, 0.001)
}

func TestDelta(t *testing.T) {
	t.Run("zero baseline yields nil", func(t *testing.T) {
		assert.Nil(t, Delta(100, 0))
		assert.Nil(t, Delta(0, 0))
	})

	t.Run("growth rounds to whole percent", func(t *testing.T) {
		d := Delta(125, 100)
		require.NotNil(t, d)
		assert.Equal(t, 25, d.Pct)
		assert.Equal(t, "up", d.Direction)
	})

	t.Run("decline is absolute with direction down", func(t *testing.T) {
		d := Delta(75, 100)
		require.NotNil(t, d)
		assert.Equal(t, 25, d.Pct)
		assert.Equal(t, "down", d.Direction)
	})

	t.Run("flat is up with zero percent", func(t *testing.T) {
		d := Delta(100, 100)
		require.NotNil(t, d)
		assert.Equal(t, 0, d.Pct)
		assert.Equal(t, "up", d.Direction)
	})
}

func TestDeltas(t *testing.T) {
	current := models.AggregateTotals{Spend: 120, Clicks: 60, Conversions: 0}
	previous := models.AggregateTotals{Spend: 100, Clicks: 80, Conversions: 0}
	out := Deltas(current, previous)

	require.Contains(t, out, "spend")
	assert.Equal(t, 20, out["spend"].Pct)
	assert.Equal(t, "up", out["spend"].Direction)

	require.Contains(t, out, "clicks")
	assert.Equal(t, 25, out["clicks"].Pct)
	assert.Equal(t, "down", out["clicks"].Direction)

	// Zero-baseline metrics are omitted entirely.
	assert.NotContains(t, out, "conversions")
	assert.NotContains(t, out, "impressions")
}

func TestConversionSplit(t *testing.T) {
	split := ConversionSplit(100)
	assert.Equal(t, 42, split.Purchase)
	assert.Equal(t, 33, split.LeadForm)
	assert.Equal(t, 25, split.PhoneCall)

	// Independent rounding means the parts may not sum to the total.
	split = ConversionSplit(10)
	assert.Equal(t, 4, split.Purchase)
	assert.Equal(t, 3, split.LeadForm)
	assert.Equal(t, 3, split.PhoneCall)

	split = ConversionSplit(0)
	assert.Zero(t, split.Purchase+split.LeadForm+split.PhoneCall)
}
