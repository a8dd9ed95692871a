package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverto/adreport/internal/models"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "€1234.50", FormatMoney("€", 1234.5))
	assert.Equal(t, "$0.00", FormatMoney("$", 0))
	assert.Equal(t, "£19.99", FormatMoney("£", 19.99))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "42", FormatCount(42))
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "3.50", FormatCount(3.5))
	assert.Equal(t, "1.25", FormatCount(1.25))
}

func TestExportRecordsCSV(t *testing.T) {
	records := []models.MetricRecord{
		{ClientID: "c1", Platform: models.PlatformMeta, Date: "2024-01-02", AccountName: "Brand", Spend: 20, Impressions: 500, Clicks: 10, Conversions: 2},
		{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-01", AccountName: "", Spend: 10.5, Impressions: 100, Clicks: 5, Conversions: 1.5},
	}

	out := ExportRecordsCSV(records, "€")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Platform,Account,Spend,Impressions,Clicks,Conversions,Leads,Conversion Value", lines[0])
	// Rows come out date-sorted; the unassigned account renders as "Default".
	assert.Equal(t, "2024-01-01,google,Default,€10.50,100,5,1.50,0,€0.00", lines[1])
	assert.Equal(t, "2024-01-02,meta,Brand,€20.00,500,10,2,0,€0.00", lines[2])
}

func TestExportRecordsCSVQuotesDelimiters(t *testing.T) {
	out := ExportRecordsCSV([]models.MetricRecord{
		{Platform: models.PlatformGoogle, Date: "2024-01-01", AccountName: "Brand, EMEA"},
	}, "€")
	assert.Contains(t, out, `"Brand, EMEA"`)
}

func TestExportTotalsCSV(t *testing.T) {
	out := ExportTotalsCSV([]TotalsRow{
		{Label: "Total", Totals: models.AggregateTotals{Spend: 100, ConversionValue: 250, ROAS: 2.5}},
	}, "$")
	assert.Contains(t, out, "Label,Spend")
	assert.Contains(t, out, "Total,$100.00,0,0,0,0,$250.00,2.50")
}
