package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adverto/adreport/internal/models"
)

// PostgresClientRepo implements ClientRepo using PostgreSQL.
type PostgresClientRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresClientRepo creates a client repo on the given pool.
func NewPostgresClientRepo(pool *pgxpool.Pool) *PostgresClientRepo {
	return &PostgresClientRepo{pool: pool}
}

func (r *PostgresClientRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, currency, active, created_at, updated_at
		FROM clients WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Currency, &c.Active, &c.CreatedAt, &c.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (r *PostgresClientRepo) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, currency, active, created_at, updated_at
		FROM clients ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Currency, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *PostgresClientRepo) UpsertClient(ctx context.Context, c *models.Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (id, name, email, currency, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			currency = EXCLUDED.currency,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.Name, c.Email, c.Currency, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert client: %w", err)
	}
	return nil
}

// DeleteClient removes the client row. Metric rows, snapshots and
// schedules cascade via foreign keys.
func (r *PostgresClientRepo) DeleteClient(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
