package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adverto/adreport/internal/models"
)

// unassignedVariantsSQL matches every stored spelling of the unassigned
// account bucket, including NULL.
const unassignedVariantsSQL = `(account_name IS NULL OR account_name IN ('', 'Default', 'null'))`

// PostgresMetricStore implements MetricStore using PostgreSQL.
type PostgresMetricStore struct {
	pool *pgxpool.Pool
}

// NewPostgresMetricStore creates a metric store on the given pool.
func NewPostgresMetricStore(pool *pgxpool.Pool) *PostgresMetricStore {
	return &PostgresMetricStore{pool: pool}
}

// BatchUpsert writes all records in one pgx batch. Rows sharing the
// (client_id, platform, date, account_name) key are overwritten. The
// caller chunks large imports; a batch here is at most one chunk.
func (s *PostgresMetricStore) BatchUpsert(ctx context.Context, records []models.MetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		name := r.AccountName
		if models.IsUnassignedAccount(name) {
			name = ""
		}
		batch.Queue(`
			INSERT INTO metric_records (
				client_id, platform, account_name, date,
				spend, impressions, clicks, conversions, leads, conversion_value
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (client_id, platform, date, account_name) DO UPDATE SET
				spend = EXCLUDED.spend,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				leads = EXCLUDED.leads,
				conversion_value = EXCLUDED.conversion_value,
				updated_at = now()
		`, r.ClientID, r.Platform, name, r.Date,
			r.Spend, r.Impressions, r.Clicks, r.Conversions, r.Leads, r.ConversionValue)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert metric records: %w", err)
		}
	}
	return nil
}

// Query returns records matching the filter ordered by date.
func (s *PostgresMetricStore) Query(ctx context.Context, f Filter) ([]models.MetricRecord, error) {
	where, args := buildFilter(f)
	q := `
		SELECT client_id, platform, COALESCE(account_name, ''), date,
		       spend, impressions, clicks, conversions, leads, conversion_value
		FROM metric_records` + where + ` ORDER BY date, platform, account_name`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric records: %w", err)
	}
	defer rows.Close()

	var out []models.MetricRecord
	for rows.Next() {
		var r models.MetricRecord
		if err := rows.Scan(
			&r.ClientID, &r.Platform, &r.AccountName, &r.Date,
			&r.Spend, &r.Impressions, &r.Clicks, &r.Conversions, &r.Leads, &r.ConversionValue,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteByFilter removes matching rows and returns the count.
func (s *PostgresMetricStore) DeleteByFilter(ctx context.Context, f Filter) (int64, error) {
	where, args := buildFilter(f)
	tag, err := s.pool.Exec(ctx, `DELETE FROM metric_records`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete metric records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListAccounts returns distinct account labels for a client, with the
// unassigned variants collapsed to "".
func (s *PostgresMetricStore) ListAccounts(ctx context.Context, clientID string, platform models.Platform) ([]string, error) {
	q := `
		SELECT DISTINCT CASE WHEN ` + unassignedVariantsSQL + ` THEN '' ELSE account_name END AS name
		FROM metric_records WHERE client_id = $1`
	args := []interface{}{clientID}
	if platform != "" {
		q += ` AND platform = $2`
		args = append(args, platform)
	}
	q += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		accounts = append(accounts, name)
	}
	return accounts, rows.Err()
}

// buildFilter renders a Filter as a WHERE clause. The unassigned-account
// case uses the compound is-null-or-variant predicate so a delete for the
// "Default" bucket also clears rows imported before labels existed.
func buildFilter(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.Platform != "" {
		add("platform = $%d", f.Platform)
	}
	if f.StartDate != "" {
		add("date >= $%d", f.StartDate)
	}
	if f.EndDate != "" {
		add("date <= $%d", f.EndDate)
	}
	if f.HasAccount {
		if models.IsUnassignedAccount(f.Account) {
			conds = append(conds, unassignedVariantsSQL)
		} else {
			add("account_name = $%d", f.Account)
		}
	}
	if len(f.Accounts) > 0 {
		var alts []string
		for _, a := range f.Accounts {
			if models.IsUnassignedAccount(a) {
				alts = append(alts, unassignedVariantsSQL)
			} else {
				args = append(args, a)
				alts = append(alts, fmt.Sprintf("account_name = $%d", len(args)))
			}
		}
		conds = append(conds, "("+strings.Join(alts, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
