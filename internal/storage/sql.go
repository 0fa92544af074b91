package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/models"
)

const createPromptsTable = `
CREATE TABLE IF NOT EXISTS prompts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	category TEXT,
	tags TEXT,
	prompt TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

const selectPrompts = `SELECT id, title, description, category, tags, prompt, created_at FROM prompts ORDER BY created_at DESC`

const insertPrompt = `INSERT OR IGNORE INTO prompts (id, title, description, category, tags, prompt, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

// SQLStore reads prompts from a SQL table
type SQLStore struct {
	db   *sql.DB
	name string
}

// OpenSQLite opens the database file at path with the pure-Go sqlite driver
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return &SQLStore{db: db, name: "sqlite database " + path}, nil
}

// NewSQLStore wraps an existing connection pool
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, name: "sql database"}
}

// Name implements Repository
func (s *SQLStore) Name() string {
	return s.name
}

// Close releases the connection pool
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the prompts table when missing
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createPromptsTable); err != nil {
		return fmt.Errorf("failed to create prompts table: %w", err)
	}
	return nil
}

// InsertPrompts adds prompts whose id is not already present and reports how
// many rows were inserted
func (s *SQLStore) InsertPrompts(ctx context.Context, prompts []models.Prompt) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, p := range prompts {
		tags, err := json.Marshal(nonNilTags(p.Tags))
		if err != nil {
			return 0, fmt.Errorf("failed to encode tags for %s: %w", p.ID, err)
		}
		res, err := tx.ExecContext(ctx, insertPrompt,
			p.ID, p.Name, p.Summary, p.Category, string(tags), p.Body,
			p.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return 0, fmt.Errorf("failed to insert prompt %s: %w", p.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prompts: %w", err)
	}
	return inserted, nil
}

// FetchPrompts implements Repository
func (s *SQLStore) FetchPrompts(ctx context.Context) ([]models.Prompt, error) {
	rows, err := s.db.QueryContext(ctx, selectPrompts)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]models.Prompt, 0)
	for rows.Next() {
		var (
			p                               models.Prompt
			description, category, tagsJSON sql.NullString
			createdAt                       sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &description, &category, &tagsJSON, &p.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt row: %w", err)
		}

		p.Summary = description.String
		p.Category = category.String
		p.CreatedAt = parseTimestamp(createdAt.String)
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &p.Tags); err != nil {
				logging.Logger.Warnw("ignoring malformed tags column", "id", p.ID, "error", err)
				p.Tags = nil
			}
		}

		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompt rows: %w", err)
	}

	return prompts, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
