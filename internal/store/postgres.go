package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"matchtracker/internal/match"
)

// Postgres stores the match collection in a single table, one row per
// record with deck selections flattened into nullable columns.
type Postgres struct {
	pool *pgxpool.Pool
}

// PoolSettings are the connection pool knobs passed through from config.
type PoolSettings struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS matches (
	id                 TEXT PRIMARY KEY,
	ts                 TEXT NOT NULL,
	your_primary       TEXT,
	your_secondary     TEXT,
	your_variant       TEXT,
	opponent_primary   TEXT,
	opponent_secondary TEXT,
	opponent_variant   TEXT,
	turn_order         TEXT NOT NULL,
	result             TEXT NOT NULL,
	is_locked          BOOLEAN NOT NULL DEFAULT TRUE,
	notes              TEXT NOT NULL DEFAULT '',
	points             INTEGER NOT NULL DEFAULT 0,
	auto               BOOLEAN NOT NULL DEFAULT TRUE,
	position           INTEGER NOT NULL
)`

// NewPostgres connects a pool, applies the pool settings and ensures the
// schema exists.
func NewPostgres(ctx context.Context, url string, settings PoolSettings) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if settings.MaxConns > 0 {
		poolCfg.MaxConns = int32(settings.MaxConns)
	}
	if settings.MinConns > 0 {
		poolCfg.MinConns = int32(settings.MinConns)
	}
	if settings.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = settings.MaxConnLifetime
	}
	if settings.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = settings.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) List(ctx context.Context) ([]match.Record, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, ts, your_primary, your_secondary, your_variant,
		       opponent_primary, opponent_secondary, opponent_variant,
		       turn_order, result, is_locked, notes, points, auto
		FROM matches ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var records []match.Record
	for rows.Next() {
		var (
			rec      match.Record
			your     match.DeckSelection
			opponent match.DeckSelection
			isLocked bool
			notes    string
			points   int
			auto     bool
		)
		err := rows.Scan(
			&rec.ID, &rec.Timestamp,
			&your.Primary, &your.Secondary, &your.Variant,
			&opponent.Primary, &opponent.Secondary, &opponent.Variant,
			&rec.TurnOrder, &rec.Result,
			&isLocked, &notes, &points, &auto,
		)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		rec.YourDeck = &your
		rec.OpponentDeck = &opponent
		rec.IsLocked = match.BoolPtr(isLocked)
		rec.Notes = match.StringPtr(notes)
		rec.Points = match.IntPtr(points)
		rec.Auto = match.BoolPtr(auto)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return records, nil
}

func (p *Postgres) ReplaceAll(ctx context.Context, records []match.Record) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM matches"); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}

	batch := &pgx.Batch{}
	for i, rec := range records {
		queueInsert(batch, rec, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (p *Postgres) Add(ctx context.Context, rec match.Record) error {
	var position int
	if err := p.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM matches").Scan(&position); err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	batch := &pgx.Batch{}
	queueInsert(batch, rec, position)
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM matches").Scan(&count); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func queueInsert(batch *pgx.Batch, rec match.Record, position int) {
	your := rec.YourDeck
	if your == nil {
		your = &match.DeckSelection{}
	}
	opponent := rec.OpponentDeck
	if opponent == nil {
		opponent = &match.DeckSelection{}
	}

	batch.Queue(`
		INSERT INTO matches (
			id, ts, your_primary, your_secondary, your_variant,
			opponent_primary, opponent_secondary, opponent_variant,
			turn_order, result, is_locked, notes, points, auto, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.Timestamp,
		your.Primary, your.Secondary, your.Variant,
		opponent.Primary, opponent.Secondary, opponent.Variant,
		rec.TurnOrder, string(rec.Result),
		rec.Locked(), noteText(rec.Notes), rec.PointsValue(), rec.AutoPoints(),
		position,
	)
}

func noteText(notes *string) string {
	if notes == nil {
		return ""
	}
	return *notes
}
