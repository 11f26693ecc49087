// Package audit keeps an optional SQLite journal of inbound events and
// outbound sends.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"linguabot/internal/domain"

	_ "modernc.org/sqlite"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Store implements domain.Journal on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ domain.Journal = (*Store)(nil)

// Open creates the database file (and its directory) if needed and brings
// the schema up to date.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal migration failed: %w", err)
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func (s *Store) RecordInbound(ctx context.Context, ev domain.Event) error {
	kind := ""
	if ev.Payload != nil {
		kind = string(ev.Payload.Kind())
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (event_id, direction, chat_id, kind, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, DirectionIn, ev.ChatID, kind, ev.Text(), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record inbound: %w", err)
	}
	return nil
}

func (s *Store) RecordOutbound(ctx context.Context, eventID string, chatID int64, text string, mirrored bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (event_id, direction, chat_id, kind, text, mirrored, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		eventID, DirectionOut, chatID, string(domain.KindText), text, mirrored, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record outbound: %w", err)
	}
	return nil
}

// Tail returns the latest n entries, oldest first.
func (s *Store) Tail(ctx context.Context, n int) ([]domain.JournalEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, direction, chat_id, kind, text, mirrored, created_at
		 FROM (SELECT * FROM journal ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.EventID, &e.Direction, &e.ChatID, &e.Kind, &e.Text, &e.Mirrored, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than maxAge and returns how many were removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx, `DELETE FROM journal WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info("journal pruned", "rows", n, "cutoff", cutoff)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
