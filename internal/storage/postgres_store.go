package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"scoringd/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS engagement_snapshots (
	id          BIGSERIAL PRIMARY KEY,
	subject     TEXT        NOT NULL,
	likes       BIGINT      NOT NULL DEFAULT 0,
	comments    BIGINT      NOT NULL DEFAULT 0,
	shares      BIGINT      NOT NULL DEFAULT 0,
	saves       BIGINT      NOT NULL DEFAULT 0,
	views       BIGINT      NOT NULL DEFAULT 0,
	followers   BIGINT      NOT NULL DEFAULT 0,
	posts       BIGINT      NOT NULL DEFAULT 0,
	recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS engagement_snapshots_subject_idx ON engagement_snapshots (subject, id);
`

// PostgresHistoryStore keeps snapshots in a single table ordered by id.
type PostgresHistoryStore struct {
	db           *sql.DB
	maxSubjects  int
	maxSnapshots int
}

func NewPostgresHistoryStore(db *sql.DB, maxSubjects, maxSnapshots int) *PostgresHistoryStore {
	return &PostgresHistoryStore{
		db:           db,
		maxSubjects:  maxSubjects,
		maxSnapshots: maxSnapshots,
	}
}

// OpenPostgres connects with the lib/pq driver and creates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

func (s *PostgresHistoryStore) Append(ctx context.Context, subject string, snap models.Snapshot) error {
	if s.maxSubjects > 0 {
		var known bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM engagement_snapshots WHERE subject = $1)`, subject).Scan(&known)
		if err != nil {
			return fmt.Errorf("error checking subject: %w", err)
		}
		if !known {
			var count int
			err = s.db.QueryRowContext(ctx,
				`SELECT COUNT(DISTINCT subject) FROM engagement_snapshots`).Scan(&count)
			if err != nil {
				return fmt.Errorf("error counting subjects: %w", err)
			}
			if count >= s.maxSubjects {
				return models.ErrCapacityExceeded
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	m := snap.Metrics
	_, err = tx.ExecContext(ctx, `
		INSERT INTO engagement_snapshots
			(subject, likes, comments, shares, saves, views, followers, posts, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		subject, m.Likes, m.Comments, m.Shares, m.Saves, m.Views, m.Followers, m.Posts, snap.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("error inserting snapshot: %w", err)
	}

	if s.maxSnapshots > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM engagement_snapshots
			WHERE subject = $1 AND id NOT IN (
				SELECT id FROM engagement_snapshots WHERE subject = $1 ORDER BY id DESC LIMIT $2
			)`, subject, s.maxSnapshots)
		if err != nil {
			return fmt.Errorf("error trimming history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing snapshot: %w", err)
	}
	return nil
}

func (s *PostgresHistoryStore) List(ctx context.Context, subject string) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT likes, comments, shares, saves, views, followers, posts, recorded_at
		FROM engagement_snapshots
		WHERE subject = $1
		ORDER BY id`, subject)
	if err != nil {
		return nil, fmt.Errorf("error querying history: %w", err)
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		m := &snap.Metrics
		if err := rows.Scan(&m.Likes, &m.Comments, &m.Shares, &m.Saves, &m.Views, &m.Followers, &m.Posts, &snap.RecordedAt); err != nil {
			return nil, fmt.Errorf("error scanning snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	if len(snaps) == 0 {
		return nil, models.ErrNoData
	}
	return snaps, nil
}

func (s *PostgresHistoryStore) Subjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT subject FROM engagement_snapshots ORDER BY subject`)
	if err != nil {
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	subjects := []string{}
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("error scanning subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

func (s *PostgresHistoryStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM engagement_snapshots WHERE recorded_at < $1`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("error pruning history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading pruned rows: %w", err)
	}
	return int(n), nil
}

func (s *PostgresHistoryStore) Close() error {
	return s.db.Close()
}
