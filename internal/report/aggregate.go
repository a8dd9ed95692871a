package report

import (
	"math"
	"sort"

	"github.com/adverto/adreport/internal/models"
)

// Totals sums every measure across the records and derives ROAS from the
// summed values. An empty input returns all zeros with ROAS 0, so callers
// always get something to render.
func Totals(records []models.MetricRecord) models.AggregateTotals {
	var t models.AggregateTotals
	for _, r := range records {
		t.Spend += r.Spend
		t.Impressions += r.Impressions
		t.Clicks += r.Clicks
		t.Conversions += r.Conversions
		t.Leads += r.Leads
		t.ConversionValue += r.ConversionValue
	}
	if t.Spend > 0 {
		t.ROAS = t.ConversionValue / t.Spend
	}
	return t
}

// ByPlatform groups records by platform and totals each group. Platforms
// with no records are absent from the result, not zero-filled.
func ByPlatform(records []models.MetricRecord) map[models.Platform]models.AggregateTotals {
	groups := make(map[models.Platform][]models.MetricRecord)
	for _, r := range records {
		groups[r.Platform] = append(groups[r.Platform], r)
	}
	out := make(map[models.Platform]models.AggregateTotals, len(groups))
	for p, g := range groups {
		out[p] = Totals(g)
	}
	return out
}

// ByDate buckets spend and conversions per day, sorted ascending. Dates
// are ISO strings so a lexical sort is chronological.
func ByDate(records []models.MetricRecord) []models.DailyPoint {
	buckets := make(map[string]*models.DailyPoint)
	for _, r := range records {
		p, ok := buckets[r.Date]
		if !ok {
			p = &models.DailyPoint{Date: r.Date}
			buckets[r.Date] = p
		}
		p.Spend += r.Spend
		p.Conversions += r.Conversions
	}
	out := make([]models.DailyPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Delta is the period-over-period change of one metric. A zero baseline
// makes the change undefined, so the result is nil rather than infinite
// or 100%.
func Delta(current, previous float64) *models.Delta {
	if previous == 0 {
		return nil
	}
	d := &models.Delta{
		Pct: int(math.Round(math.Abs((current - previous) / previous * 100))),
	}
	if current >= previous {
		d.Direction = "up"
	} else {
		d.Direction = "down"
	}
	return d
}

// Deltas compares current and previous totals metric by metric. Metrics
// with a zero baseline are omitted.
func Deltas(current, previous models.AggregateTotals) map[string]*models.Delta {
	out := make(map[string]*models.Delta)
	put := func(name string, cur, prev float64) {
		if d := Delta(cur, prev); d != nil {
			out[name] = d
		}
	}
	put("spend", current.Spend, previous.Spend)
	put("impressions", float64(current.Impressions), float64(previous.Impressions))
	put("clicks", float64(current.Clicks), float64(previous.Clicks))
	put("conversions", current.Conversions, previous.Conversions)
	put("leads", current.Leads, previous.Leads)
	put("conversion_value", current.ConversionValue, previous.ConversionValue)
	put("roas", current.ROAS, previous.ROAS)
	return out
}

// ConversionSplit allocates total conversions to assumed conversion
// types at fixed 42/33/25 percentages, each rounded independently. The
// source data has no per-type breakdown; this is display-only and the
// parts need not sum exactly to the total.
func ConversionSplit(totalConversions float64) models.ConversionSplit {
	return models.ConversionSplit{
		Purchase:  int(math.Round(totalConversions * 0.42)),
		LeadForm:  int(math.Round(totalConversions * 0.33)),
		PhoneCall: int(math.Round(totalConversions * 0.25)),
	}
}
