// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records committed extractions in a local SQLite
// database so past problems survive restarts. Writes are best-effort:
// the orchestrator logs append failures and moves on.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	problem_statement TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at DESC);
`

// Entry is one recorded extraction.
type Entry struct {
	ID               string
	Kind             string // "audio", "image", "mcq"
	ProblemStatement string
	Difficulty       string
	CreatedAt        time.Time
}

// Store is the SQLite-backed extraction history.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.snapsolve/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".snapsolve", "history.db"), nil
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one extraction and returns its id.
func (s *Store) Append(kind, problemStatement, difficulty string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO extractions (id, kind, problem_statement, difficulty, created_at) VALUES (?, ?, ?, ?, ?)",
		id, kind, problemStatement, difficulty, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to append extraction: %w", err)
	}
	return id, nil
}

// Recent returns the n most recent extractions, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT id, kind, problem_statement, difficulty, created_at FROM extractions ORDER BY created_at DESC, id LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Kind, &e.ProblemStatement, &e.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
