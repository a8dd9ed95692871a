package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adverto/adreport/internal/models"
)

// PostgresReportRepo implements ReportRepo using PostgreSQL. The snapshot
// aggregates are stored as a JSONB payload next to the queryable columns
// so the snapshot schema can evolve by version without migrations on
// historic rows.
type PostgresReportRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresReportRepo creates a report repo on the given pool.
func NewPostgresReportRepo(pool *pgxpool.Pool) *PostgresReportRepo {
	return &PostgresReportRepo{pool: pool}
}

func (r *PostgresReportRepo) SaveSnapshot(ctx context.Context, s *models.ReportSnapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO report_snapshots (id, client_id, name, schema_version, start_date, end_date, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.ClientID, s.Name, s.SchemaVersion, s.StartDate, s.EndDate, payload, s.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *PostgresReportRepo) GetSnapshot(ctx context.Context, id string) (*models.ReportSnapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM report_snapshots WHERE id = $1`, id).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var s models.ReportSnapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}
	return &s, nil
}

func (r *PostgresReportRepo) ListSnapshots(ctx context.Context, clientID string) ([]*models.ReportSnapshot, error) {
	q := `SELECT payload FROM report_snapshots`
	var args []interface{}
	if clientID != "" {
		q += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	q += ` ORDER BY generated_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.ReportSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var s models.ReportSnapshot
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot payload: %w", err)
		}
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}

// MarkSent stamps the sent time on both the row and the payload so
// exports of the payload stay self-contained.
func (r *PostgresReportRepo) MarkSent(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE report_snapshots
		SET sent_at = now(),
		    payload = jsonb_set(payload, '{sent_at}', to_jsonb(now()))
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark snapshot sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", id)
	}
	return nil
}

// PostgresScheduleRepo implements ScheduleRepo using PostgreSQL.
type PostgresScheduleRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleRepo creates a schedule repo on the given pool.
func NewPostgresScheduleRepo(pool *pgxpool.Pool) *PostgresScheduleRepo {
	return &PostgresScheduleRepo{pool: pool}
}

func (r *PostgresScheduleRepo) GetSchedule(ctx context.Context, id string) (*models.ReportSchedule, error) {
	var s models.ReportSchedule
	err := r.pool.QueryRow(ctx, `
		SELECT id, client_id, name, frequency, recipients, metrics, active, created_at, updated_at
		FROM report_schedules WHERE id = $1
	`, id).Scan(&s.ID, &s.ClientID, &s.Name, &s.Frequency, &s.Recipients, &s.Metrics, &s.Active, &s.CreatedAt, &s.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &s, nil
}

func (r *PostgresScheduleRepo) ListSchedules(ctx context.Context, clientID string) ([]*models.ReportSchedule, error) {
	q := `
		SELECT id, client_id, name, frequency, recipients, metrics, active, created_at, updated_at
		FROM report_schedules`
	var args []interface{}
	if clientID != "" {
		q += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	q += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.ReportSchedule
	for rows.Next() {
		var s models.ReportSchedule
		if err := rows.Scan(&s.ID, &s.ClientID, &s.Name, &s.Frequency, &s.Recipients, &s.Metrics, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}

func (r *PostgresScheduleRepo) UpsertSchedule(ctx context.Context, s *models.ReportSchedule) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO report_schedules (id, client_id, name, frequency, recipients, metrics, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			frequency = EXCLUDED.frequency,
			recipients = EXCLUDED.recipients,
			metrics = EXCLUDED.metrics,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.ClientID, s.Name, s.Frequency, s.Recipients, s.Metrics, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepo) DeleteSchedule(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM report_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}
