package models

import (
	"errors"
	"time"
)

// SnapshotSchemaVersion is stamped into every generated snapshot so the
// payload format can evolve without corrupting historic reports.
const SnapshotSchemaVersion = 1

// ReportSnapshot is a named, timestamped, immutable capture of the
// aggregation output for a client and date range. It is written once at
// generation time and never recomputed.
type ReportSnapshot struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	Name          string `json:"name"`
	SchemaVersion int    `json:"schema_version"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// SelectedMetrics and SelectedAccounts record what the report was
	// generated over, for later display and export.
	SelectedMetrics  []string `json:"selected_metrics,omitempty"`
	SelectedAccounts []string `json:"selected_accounts,omitempty"`

	Totals     AggregateTotals              `json:"totals"`
	ByPlatform map[Platform]AggregateTotals `json:"by_platform"`
	ByDate     []DailyPoint                 `json:"by_date"`

	// Deltas compares the report window against the immediately
	// preceding window of identical length. Keys are metric names; a
	// missing key means the baseline was zero.
	Deltas map[string]*Delta `json:"deltas,omitempty"`

	Split ConversionSplit `json:"conversion_split"`

	GeneratedAt time.Time  `json:"generated_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
}

// ScheduleFrequency is how often an emailed report should go out.
type ScheduleFrequency string

const (
	ScheduleWeekly  ScheduleFrequency = "weekly"
	ScheduleMonthly ScheduleFrequency = "monthly"
)

// ReportSchedule is pure configuration: a row describing a recurring
// report. Nothing in this service executes schedules; an external worker
// reads these rows.
type ReportSchedule struct {
	ID        string            `json:"id"`
	ClientID  string            `json:"client_id"`
	Name      string            `json:"name"`
	Frequency ScheduleFrequency `json:"frequency"`
	// Recipients are email addresses the external worker delivers to.
	Recipients []string `json:"recipients"`
	Metrics    []string `json:"metrics,omitempty"`
	Active     bool     `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks required schedule fields.
func (s *ReportSchedule) Validate() error {
	if s.ClientID == "" {
		return errors.New("schedule: client_id is required")
	}
	if s.Frequency != ScheduleWeekly && s.Frequency != ScheduleMonthly {
		return errors.New("schedule: frequency must be weekly or monthly")
	}
	if len(s.Recipients) == 0 {
		return errors.New("schedule: at least one recipient is required")
	}
	return nil
}
