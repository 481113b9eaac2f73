package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/burnnote-go/internal/stats"
)

// Postgres persists usage events to PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed stats store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the event tables when they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS note_stored_events (
			note_id TEXT PRIMARY KEY,
			size_bytes INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS note_consumed_events (
			note_id TEXT PRIMARY KEY,
			size_bytes INT NOT NULL,
			stored_at TIMESTAMPTZ NOT NULL,
			consumed_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sweep_events (
			id BIGSERIAL PRIMARY KEY,
			removed INT NOT NULL,
			ttl_seconds BIGINT NOT NULL,
			swept_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// SaveNoteStored records a stored note. Replayed deliveries of the same
// note are dropped on the primary key.
func (p *Postgres) SaveNoteStored(ctx context.Context, event *stats.NoteStoredEvent) error {
	query := `
		INSERT INTO note_stored_events (note_id, size_bytes, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (note_id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.SizeBytes,
		event.CreatedAt,
	)

	return err
}

func (p *Postgres) SaveNoteConsumed(ctx context.Context, event *stats.NoteConsumedEvent) error {
	query := `
		INSERT INTO note_consumed_events (note_id, size_bytes, stored_at, consumed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (note_id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.SizeBytes,
		event.StoredAt,
		event.ConsumedAt,
	)

	return err
}

func (p *Postgres) SaveSweepCompleted(ctx context.Context, event *stats.SweepCompletedEvent) error {
	query := `
		INSERT INTO sweep_events (removed, ttl_seconds, swept_at)
		VALUES ($1, $2, $3)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Removed,
		int64(event.TTL.Seconds()),
		event.SweptAt,
	)

	return err
}

// Shutdown closes the connection pool.
func (p *Postgres) Shutdown() error {
	p.pool.Close()

	return nil
}
