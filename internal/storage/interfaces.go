package storage

import (
	"context"

	"github.com/adverto/adreport/internal/models"
)

// Filter selects metric records. Zero values mean "any". Account is
// matched under the unassigned equivalence class: filtering for an
// unassigned label also matches NULL, "", "Default" and "null" rows.
type Filter struct {
	ClientID  string
	Platform  models.Platform
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
	// Account filters by account label when HasAccount is set. The
	// two-field shape distinguishes "any account" from "the unassigned
	// bucket".
	Account    string
	HasAccount bool
	// Accounts restricts to a set of labels when non-empty, each matched
	// under the unassigned equivalence class. Used by report generation
	// where the user picks several accounts at once.
	Accounts []string
}

// MetricStore persists daily metric records. BatchUpsert must overwrite
// rows sharing the (client, platform, date, account) key rather than
// duplicate them, and must accept batches of at least 100 rows.
type MetricStore interface {
	BatchUpsert(ctx context.Context, records []models.MetricRecord) error
	Query(ctx context.Context, f Filter) ([]models.MetricRecord, error)
	// DeleteByFilter removes matching rows and returns how many went.
	DeleteByFilter(ctx context.Context, f Filter) (int64, error)
	// ListAccounts returns the distinct account labels for a client and
	// platform. Unassigned variants collapse into one "" entry.
	ListAccounts(ctx context.Context, clientID string, platform models.Platform) ([]string, error)
}

// ClientRepo stores agency client accounts.
type ClientRepo interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	UpsertClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// ReportRepo stores immutable report snapshots. There is no update
// operation besides MarkSent; snapshots are frozen at generation time.
type ReportRepo interface {
	SaveSnapshot(ctx context.Context, s *models.ReportSnapshot) error
	GetSnapshot(ctx context.Context, id string) (*models.ReportSnapshot, error)
	ListSnapshots(ctx context.Context, clientID string) ([]*models.ReportSnapshot, error)
	MarkSent(ctx context.Context, id string) error
}

// ScheduleRepo stores report schedule configuration rows. Execution is
// external.
type ScheduleRepo interface {
	GetSchedule(ctx context.Context, id string) (*models.ReportSchedule, error)
	ListSchedules(ctx context.Context, clientID string) ([]*models.ReportSchedule, error)
	UpsertSchedule(ctx context.Context, s *models.ReportSchedule) error
	DeleteSchedule(ctx context.Context, id string) error
}
