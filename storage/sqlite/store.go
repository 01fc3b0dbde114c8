// Package sqlite provides a SQLite-backed character store, so loaded
// characters survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Orcthanc/discord-dieroller/character"
	"github.com/Orcthanc/discord-dieroller/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists characters in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ character.Store = (*Store)(nil)

// Open opens a SQLite character store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
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

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the character of user or character.ErrNotFound.
func (s *Store) Get(ctx context.Context, user string) (character.Character, error) {
	if err := ctx.Err(); err != nil {
		return character.Character{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT user_id, name, fortitude, reflex, will, initiative, skills_json
		 FROM characters WHERE user_id = ?`, user)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return character.Character{}, character.ErrNotFound
	}
	if err != nil {
		return character.Character{}, fmt.Errorf("get character %s: %w", user, err)
	}
	return rec.Character, nil
}

// Put stores c as the character of user, replacing any previous one.
func (s *Store) Put(ctx context.Context, user string, c character.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("user is required")
	}

	skills := c.Skills
	if skills == nil {
		skills = map[string]int{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO characters (
		   user_id, name, fortitude, reflex, will, initiative, skills_json, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   name = excluded.name,
		   fortitude = excluded.fortitude,
		   reflex = excluded.reflex,
		   will = excluded.will,
		   initiative = excluded.initiative,
		   skills_json = excluded.skills_json,
		   updated_at = excluded.updated_at`,
		user, c.Name, c.Fortitude, c.Reflex, c.Will, c.Initiative, string(skillsJSON),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put character %s: %w", user, err)
	}
	return nil
}

// List returns every stored character ordered by user.
func (s *Store) List(ctx context.Context) ([]character.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, name, fortitude, reflex, will, initiative, skills_json
		 FROM characters ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var records []character.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (character.Record, error) {
	var (
		rec        character.Record
		skillsJSON string
	)

	if err := row.Scan(
		&rec.User,
		&rec.Character.Name,
		&rec.Character.Fortitude,
		&rec.Character.Reflex,
		&rec.Character.Will,
		&rec.Character.Initiative,
		&skillsJSON,
	); err != nil {
		return character.Record{}, err
	}

	if err := json.Unmarshal([]byte(skillsJSON), &rec.Character.Skills); err != nil {
		return character.Record{}, fmt.Errorf("decode skills: %w", err)
	}
	return rec, nil
}
