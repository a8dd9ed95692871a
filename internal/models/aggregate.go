package models

// AggregateTotals is a derived rollup over a set of metric records. It is
// computed fresh on every query and never persisted outside a report
// snapshot. ROAS is derived from the summed fields, never averaged
// per-record, so totals stay additive across any date partition.
type AggregateTotals struct {
	Spend           float64 `json:"spend"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	Leads           float64 `json:"leads"`
	ConversionValue float64 `json:"conversion_value"`
	ROAS            float64 `json:"roas"`
}

// DailyPoint is one bucket of the spend/conversion time series.
type DailyPoint struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
}

// Delta is a period-over-period change for a single metric. A nil *Delta
// means the previous period had a zero baseline and the change is
// undefined.
type Delta struct {
	Pct       int    `json:"pct"`
	Direction string `json:"direction"` // "up" or "down"
}

// ConversionSplit is the display-only allocation of total conversions
// across assumed conversion types. The source data has no per-type
// breakdown; the split is a fixed heuristic.
type ConversionSplit struct {
	Purchase  int `json:"purchase"`
	LeadForm  int `json:"lead_form"`
	PhoneCall int `json:"phone_call"`
}
