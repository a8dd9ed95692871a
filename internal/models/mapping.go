package models

import "errors"

// ColumnMapping maps a source CSV's header names onto the fixed metric
// fields. Values are the exact header text from the file; an empty value
// means the field is unmapped and defaults to zero at commit time.
type ColumnMapping struct {
	Date            string `json:"date"`
	Spend           string `json:"spend"`
	Impressions     string `json:"impressions,omitempty"`
	Clicks          string `json:"clicks,omitempty"`
	Conversions     string `json:"conversions,omitempty"`
	Leads           string `json:"leads,omitempty"`
	ConversionValue string `json:"conversion_value,omitempty"`
}

// Validate checks the two required mappings. All other fields are
// optional.
func (m *ColumnMapping) Validate() error {
	if m.Date == "" {
		return errors.New("column mapping: date column is required")
	}
	if m.Spend == "" {
		return errors.New("column mapping: spend column is required")
	}
	return nil
}
