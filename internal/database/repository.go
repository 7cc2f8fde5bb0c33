package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-hiring-harvester/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS harvest_runs (
	id                UUID PRIMARY KEY,
	target_position   TEXT NOT NULL,
	search_expression TEXT NOT NULL,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL,
	outcome           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS harvested_posts (
	post_id        TEXT PRIMARY KEY,
	author         TEXT NOT NULL,
	posted_at      TEXT NOT NULL,
	body_text      TEXT NOT NULL,
	outbound_links TEXT[] NOT NULL DEFAULT '{}',
	first_run_id   UUID NOT NULL REFERENCES harvest_runs(id),
	last_seen_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contact_addresses (
	address       TEXT NOT NULL,
	post_id       TEXT NOT NULL REFERENCES harvested_posts(post_id),
	first_seen_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (address, post_id)
);`

// Repository mirrors harvest results into Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Poolers in transaction mode (Supabase, PgBouncer) break prepared
	// statements, so the statement cache stays off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Write stores one finished run. Posts already mirrored by an earlier run
// keep their first run id; their addresses are merged.
func (r *Repository) Write(ctx context.Context, result *models.HarvestResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO harvest_runs (id, target_position, search_expression, started_at, finished_at, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		result.RunID, result.TargetPosition, result.SearchExpression, result.StartedAt, result.FinishedAt, result.Outcome)
	if err != nil {
		return fmt.Errorf("failed to save harvest run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range result.Posts {
		batch.Queue(`
			INSERT INTO harvested_posts (post_id, author, posted_at, body_text, outbound_links, first_run_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (post_id)
			DO UPDATE SET last_seen_at = now(), outbound_links = EXCLUDED.outbound_links`,
			p.PostID, p.Author, p.PostedAt, p.BodyText, p.OutboundLinks, result.RunID)
		for _, addr := range p.ContactAddresses {
			batch.Queue(`
				INSERT INTO contact_addresses (address, post_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				addr, p.PostID)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save harvested posts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit harvest run: %w", err)
	}
	log.Printf("🗄️ Mirrored run %s (%d posts) to database", result.RunID, len(result.Posts))
	return nil
}

// KnownAddresses returns every address ever mirrored, oldest first.
func (r *Repository) KnownAddresses(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT address FROM contact_addresses
		GROUP BY address
		ORDER BY min(first_seen_at), address`)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	addrs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan addresses: %w", err)
	}
	return addrs, nil
}
