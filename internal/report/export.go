package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/adverto/adreport/internal/models"
)

// FormatMoney renders a monetary value the way the dashboard displays
// it: currency symbol prefix, two decimals.
func FormatMoney(symbol string, v float64) string {
	return symbol + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCount renders a measure that may be fractional in source data
// (conversions, leads): whole numbers without decimals, otherwise two.
func FormatCount(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportRecordsCSV serializes metric records as delimited text for user
// download, using the same display formatting as the dashboard. Output
// is deterministic: rows come out sorted by date, platform, account.
func ExportRecordsCSV(records []models.MetricRecord, currencySymbol string) string {
	sorted := make([]models.MetricRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		if sorted[i].Platform != sorted[j].Platform {
			return sorted[i].Platform < sorted[j].Platform
		}
		return sorted[i].AccountName < sorted[j].AccountName
	})

	var b strings.Builder
	b.WriteString("Date,Platform,Account,Spend,Impressions,Clicks,Conversions,Leads,Conversion Value\n")
	for _, r := range sorted {
		account := r.AccountName
		if models.IsUnassignedAccount(account) {
			account = "Default"
		}
		fmt.Fprintf(&b, "%s,%s,%s,%s,%d,%d,%s,%s,%s\n",
			r.Date,
			r.Platform,
			csvCell(account),
			FormatMoney(currencySymbol, r.Spend),
			r.Impressions,
			r.Clicks,
			FormatCount(r.Conversions),
			FormatCount(r.Leads),
			FormatMoney(currencySymbol, r.ConversionValue),
		)
	}
	return b.String()
}

// ExportTotalsCSV serializes one or more labelled totals rows (e.g. the
// per-platform table) as delimited text.
func ExportTotalsCSV(rows []TotalsRow, currencySymbol string) string {
	var b strings.Builder
	b.WriteString("Label,Spend,Impressions,Clicks,Conversions,Leads,Conversion Value,ROAS\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s,%s,%d,%d,%s,%s,%s,%s\n",
			csvCell(row.Label),
			FormatMoney(currencySymbol, row.Totals.Spend),
			row.Totals.Impressions,
			row.Totals.Clicks,
			FormatCount(row.Totals.Conversions),
			FormatCount(row.Totals.Leads),
			FormatMoney(currencySymbol, row.Totals.ConversionValue),
			strconv.FormatFloat(row.Totals.ROAS, 'f', 2, 64),
		)
	}
	return b.String()
}

// TotalsRow is one labelled line of an exported totals table.
type TotalsRow struct {
	Label  string
	Totals models.AggregateTotals
}

// csvCell quotes a value containing the delimiter so the export survives
// the same quote-toggle parser that reads imports.
func csvCell(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, "") + `"`
	}
	return v
}
