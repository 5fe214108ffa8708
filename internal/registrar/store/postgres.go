package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leasehold/internal/registrar/models"
	"leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

// Postgres persists the lease and token tables in PostgreSQL. The token
// binding lives on the same row as the lease since both are keyed by node;
// token_id stays NULL until first registration binds one.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the leases table when it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS leases (
			name_id    TEXT PRIMARY KEY,
			start_time TIMESTAMPTZ,
			end_time   TIMESTAMPTZ,
			token_id   BIGINT
		)`)
	if err != nil {
		return fmt.Errorf("ensure leases schema: %w", err)
	}
	return nil
}

func (s *Postgres) GetLease(ctx context.Context, node domain.NameID) (models.Lease, error) {
	lease := models.Lease{NameID: node}
	err := s.pool.QueryRow(ctx,
		`SELECT start_time, end_time FROM leases WHERE name_id = $1 AND start_time IS NOT NULL`,
		node.Hex(),
	).Scan(&lease.StartTime, &lease.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Lease{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Lease{}, fmt.Errorf("get lease: %w", err)
	}
	lease.StartTime = lease.StartTime.UTC()
	lease.EndTime = lease.EndTime.UTC()
	return lease, nil
}

func (s *Postgres) PutLease(ctx context.Context, lease models.Lease) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO leases (name_id, start_time, end_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (name_id) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time`,
		lease.NameID.Hex(), lease.StartTime, lease.EndTime)
	if err != nil {
		return fmt.Errorf("put lease: %w", err)
	}
	return nil
}

func (s *Postgres) TokenID(ctx context.Context, node domain.NameID) (domain.TokenID, error) {
	var id *int64
	err := s.pool.QueryRow(ctx,
		`SELECT token_id FROM leases WHERE name_id = $1`, node.Hex(),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get token binding: %w", err)
	}
	if id == nil {
		return 0, sentinel.ErrNotFound
	}
	return domain.TokenID(*id), nil
}

func (s *Postgres) BindTokenID(ctx context.Context, node domain.NameID, id domain.TokenID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO leases (name_id, token_id)
		VALUES ($1, $2)
		ON CONFLICT (name_id) DO UPDATE SET token_id = EXCLUDED.token_id`,
		node.Hex(), int64(id))
	if err != nil {
		return fmt.Errorf("bind token: %w", err)
	}
	return nil
}
