// Package sqlite provides the SQLite-backed championship store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"championship-be/internal/storage"
	"championship-be/internal/storage/sqlite/migrations"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var _ storage.ChampionshipStore = (*Store)(nil)

type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Open opens the database at path and applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

func (s *Store) Create(ctx context.Context, rec storage.ChampionshipRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("championship id is required")
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO championships (
		   id,
		   name,
		   champ_type,
		   finished,
		   champ_data,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Name,
		rec.Type,
		boolToInt(rec.Finished),
		rec.Data,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create championship: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, rec storage.ChampionshipRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE championships
		    SET name = ?, finished = ?, champ_data = ?, updated_at = ?
		  WHERE id = ?`,
		rec.Name,
		boolToInt(rec.Finished),
		rec.Data,
		toMillis(updatedAt),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update championship: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update championship: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (storage.ChampionshipRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ChampionshipRecord{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, champ_type, finished, champ_data, created_at, updated_at
		   FROM championships
		  WHERE id = ?`,
		id,
	)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ChampionshipRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.ChampionshipRecord{}, fmt.Errorf("get championship: %w", err)
	}

	return rec, nil
}

// List returns every championship, newest first.
func (s *Store) List(ctx context.Context) ([]storage.ChampionshipRecord, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, champ_type, finished, champ_data, created_at, updated_at
		   FROM championships
		  ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list championships: %w", err)
	}
	defer rows.Close()

	out := make([]storage.ChampionshipRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan championship: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list championships: %w", err)
	}

	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (storage.ChampionshipRecord, error) {
	var (
		rec                  storage.ChampionshipRecord
		createdAt, updatedAt int64
	)

	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Type,
		&rec.Finished,
		&rec.Data,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.ChampionshipRecord{}, err
	}

	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)

	return rec, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
