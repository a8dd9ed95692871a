package ingest

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/adverto/adreport/internal/models"
)

// Scope is the (client, platform, account) an import targets. Every
// record built from a file or form carries the same scope.
type Scope struct {
	ClientID    string          `json:"client_id"`
	Platform    models.Platform `json:"platform"`
	AccountName string          `json:"account_name"`
}

// Validate checks the scope before any record is built.
func (s Scope) Validate() error {
	if s.ClientID == "" {
		return errors.New("import scope: client_id is required")
	}
	if !s.Platform.Valid() {
		return errors.New("import scope: platform must be google or meta")
	}
	return nil
}

// BuildRecords turns parsed CSV rows into metric records under the given
// mapping and scope. Rows whose normalized date is not exactly ten
// characters are dropped; unmapped or unparsable measures default to
// zero.
func BuildRecords(rows []map[string]string, mapping models.ColumnMapping, scope Scope) ([]models.MetricRecord, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	num := func(row map[string]string, column string) float64 {
		if column == "" {
			return 0
		}
		v, _ := ParseNumber(row[column])
		return v
	}

	records := make([]models.MetricRecord, 0, len(rows))
	for _, row := range rows {
		date := NormalizeDate(row[mapping.Date])
		if len(date) != 10 {
			continue
		}
		records = append(records, models.MetricRecord{
			ClientID:        scope.ClientID,
			Platform:        scope.Platform,
			AccountName:     scope.AccountName,
			Date:            date,
			Spend:           num(row, mapping.Spend),
			Impressions:     int64(num(row, mapping.Impressions)),
			Clicks:          int64(num(row, mapping.Clicks)),
			Conversions:     num(row, mapping.Conversions),
			Leads:           num(row, mapping.Leads),
			ConversionValue: num(row, mapping.ConversionValue),
		})
	}
	return records, nil
}

// DailyEntry is one manually entered day of metrics. Values arrive as the
// raw form strings and run through the same permissive number parser as
// CSV cells.
type DailyEntry struct {
	Date            string `json:"date"`
	Spend           string `json:"spend"`
	Impressions     string `json:"impressions"`
	Clicks          string `json:"clicks"`
	Conversions     string `json:"conversions"`
	Leads           string `json:"leads"`
	ConversionValue string `json:"conversion_value"`
}

// DailyRecords converts manually entered rows into metric records, one
// per entry. Rows without a valid date are dropped, matching the CSV
// path.
func DailyRecords(entries []DailyEntry, scope Scope) ([]models.MetricRecord, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	records := make([]models.MetricRecord, 0, len(entries))
	for _, e := range entries {
		date := NormalizeDate(e.Date)
		if len(date) != 10 {
			continue
		}
		spend, _ := ParseNumber(e.Spend)
		impressions, _ := ParseNumber(e.Impressions)
		clicks, _ := ParseNumber(e.Clicks)
		conversions, _ := ParseNumber(e.Conversions)
		leads, _ := ParseNumber(e.Leads)
		value, _ := ParseNumber(e.ConversionValue)
		records = append(records, models.MetricRecord{
			ClientID:        scope.ClientID,
			Platform:        scope.Platform,
			AccountName:     scope.AccountName,
			Date:            date,
			Spend:           spend,
			Impressions:     int64(impressions),
			Clicks:          int64(clicks),
			Conversions:     conversions,
			Leads:           leads,
			ConversionValue: value,
		})
	}
	return records, nil
}

// RangeEntry is a single period total entered by hand: one spend figure
// for an inclusive [start, end] span, optionally with conversion totals.
type RangeEntry struct {
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Spend           string `json:"spend"`
	Conversions     string `json:"conversions"`
	Leads           string `json:"leads"`
	ConversionValue string `json:"conversion_value"`
}

// SpreadRange divides a period total evenly across every day of the
// inclusive span and replicates one identical record per day, each value
// rounded to two decimals. This is a deliberate approximation, not a
// measurement: a month entered as one number renders as a flat line.
func SpreadRange(entry RangeEntry, scope Scope) ([]models.MetricRecord, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if entry.Spend == "" {
		return nil, errors.New("range entry: spend is required")
	}
	start, err := time.Parse("2006-01-02", NormalizeDate(entry.StartDate))
	if err != nil {
		return nil, fmt.Errorf("range entry: invalid start date %q", entry.StartDate)
	}
	end, err := time.Parse("2006-01-02", NormalizeDate(entry.EndDate))
	if err != nil {
		return nil, fmt.Errorf("range entry: invalid end date %q", entry.EndDate)
	}
	if start.After(end) {
		return nil, errors.New("range entry: start date is after end date")
	}

	days := int(end.Sub(start).Hours()/24) + 1

	spend, _ := ParseNumber(entry.Spend)
	conversions, _ := ParseNumber(entry.Conversions)
	leads, _ := ParseNumber(entry.Leads)
	value, _ := ParseNumber(entry.ConversionValue)

	perDay := func(total float64) float64 {
		return math.Round(total/float64(days)*100) / 100
	}

	daily := models.MetricRecord{
		ClientID:        scope.ClientID,
		Platform:        scope.Platform,
		AccountName:     scope.AccountName,
		Spend:           perDay(spend),
		Conversions:     perDay(conversions),
		Leads:           perDay(leads),
		ConversionValue: perDay(value),
	}

	records := make([]models.MetricRecord, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		r := daily
		r.Date = d.Format("2006-01-02")
		records = append(records, r)
	}
	return records, nil
}
