package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lawbix/internal/ports"
)

var (
	_ ports.UserRepository      = (*DB)(nil)
	_ ports.CompanyRepository   = (*DB)(nil)
	_ ports.DiagnosisRepository = (*DB)(nil)
	_ ports.RiskRepository      = (*DB)(nil)
	_ ports.RoadmapRepository   = (*DB)(nil)
	_ ports.DerivedRepository   = (*DB)(nil)
	_ ports.DocumentRepository  = (*DB)(nil)
	_ ports.JobRepository       = (*DB)(nil)
	_ ports.ChatRepository      = (*DB)(nil)
	_ ports.Pinger              = (*DB)(nil)
)

// DB implements every repository port on one pgx pool.
type DB struct {
	Pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func Connect(ctx context.Context, url string, maxConns int) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return New(pool), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *DB {
	return &DB{
		Pool: pool,
		qb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func (db *DB) Close() { db.Pool.Close() }

// finishTx commits tx when *err is nil and rolls it back otherwise. A failed
// commit is reported through *err.
func finishTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		_ = tx.Rollback(ctx)
		return
	}
	*err = mapErr(tx.Commit(ctx))
}
