package mrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/soomrack/MR2024-sub003/mhash"
)

// ErrNotFound is returned from [*Store.Latest]
// when no record has the requested name.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	hasher  TEXT NOT NULL,
	leaves  INTEGER NOT NULL,
	root    TEXT NOT NULL,
	created INTEGER NOT NULL,
	split   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS records_name_created ON records (name, created);
CREATE INDEX IF NOT EXISTS records_created ON records (created);
`

// Store persists records in a SQLite database.
type Store struct {
	log *slog.Logger

	db *sql.DB
}

// Open opens, creating if necessary, the SQLite database at path.
func Open(log *slog.Logger, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record database %q: %w", path, err)
	}

	// SQLite serializes writers anyway;
	// a single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize record database %q: %w", path, err)
	}

	log.Debug("Opened record store", "path", path)

	return &Store{log: log, db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores r. Storing a record whose ID already exists is an error.
func (s *Store) Put(ctx context.Context, r Record) error {
	if len(r.Root) == 0 {
		return fmt.Errorf("record %q has no root digest", r.Name)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, name, hasher, leaves, root, created, split) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Name, r.Hasher, r.Leaves, r.Root.Hex(), r.Created.UnixNano(), r.Split,
	)
	if err != nil {
		return fmt.Errorf("failed to store record %q: %w", r.Name, err)
	}

	s.log.Debug(
		"Stored record",
		"id", r.ID,
		"name", r.Name,
		"hasher", r.Hasher,
		"leaves", r.Leaves,
		"split", r.Split,
		"root", r.Root.Hex(),
	)
	return nil
}

// Latest returns the most recently created record with the given name,
// or [ErrNotFound].
func (s *Store) Latest(ctx context.Context, name string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, hasher, leaves, root, created, split FROM records
		WHERE name = ? ORDER BY created DESC, rowid DESC LIMIT 1`,
		name,
	)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load record %q: %w", name, err)
	}
	return r, nil
}

// List returns every stored record, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, hasher, leaves, root, created, split FROM records
		ORDER BY created DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return out, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		id, rootHex string
		created     int64
		r           Record
	)
	if err := sc.Scan(&id, &r.Name, &r.Hasher, &r.Leaves, &rootHex, &created, &r.Split); err != nil {
		return Record{}, err
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("corrupt record ID %q: %w", id, err)
	}
	if r.Root, err = mhash.ParseDigest(rootHex); err != nil {
		return Record{}, fmt.Errorf("corrupt root for record %s: %w", id, err)
	}
	r.Created = time.Unix(0, created).UTC()

	return r, nil
}
