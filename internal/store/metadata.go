package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

// MetadataStore holds indexed entries and index state in SQLite. It is
// the durable record of what the index contains; the HNSW graph is a
// search accelerator derived from it.
type MetadataStore struct {
	db *sql.DB
}

const metadataSchema = `
CREATE TABLE IF NOT EXISTS entries (
	ordinal      INTEGER PRIMARY KEY,
	id           TEXT NOT NULL UNIQUE,
	source       TEXT NOT NULL,
	page_number  INTEGER NOT NULL,
	total_pages  INTEGER NOT NULL,
	text         TEXT NOT NULL,
	embedding    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source);

CREATE TABLE IF NOT EXISTS state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// OpenMetadataStore opens (creating if necessary) the metadata database
// at path.
func OpenMetadataStore(path string) (*MetadataStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open metadata database: %w", err)
	}

	if _, err := db.Exec(metadataSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create metadata schema: %w", err)
	}

	return &MetadataStore{db: db}, nil
}

// PutEntries inserts entries in a single transaction. Ordinals are
// assigned by insertion order via the INTEGER PRIMARY KEY.
func (m *MetadataStore) PutEntries(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO entries (id, source, page_number, total_pages, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		blob := encodeEmbedding(e.Embedding)
		if _, err := stmt.ExecContext(ctx, e.ID, e.Source, e.PageNumber, e.TotalPages, e.Text, blob); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetEntry returns the entry with the given ID, or sql.ErrNoRows.
func (m *MetadataStore) GetEntry(ctx context.Context, id string) (*Entry, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT ordinal, id, source, page_number, total_pages, text, embedding
		FROM entries WHERE id = ?`, id)
	return scanEntry(row)
}

// AllEntries returns every entry in ordinal order, embeddings included.
func (m *MetadataStore) AllEntries(ctx context.Context) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT ordinal, id, source, page_number, total_pages, text, embedding
		FROM entries ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries.
func (m *MetadataStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Sources returns the distinct source paths in the index, sorted by
// first appearance.
func (m *MetadataStore) Sources(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT source FROM entries GROUP BY source ORDER BY MIN(ordinal)`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// SetState stores a key-value pair in the state table.
func (m *MetadataStore) SetState(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

// GetState returns the value for key, or "" if unset.
func (m *MetadataStore) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state %s: %w", key, err)
	}
	return value, nil
}

// Close closes the database.
func (m *MetadataStore) Close() error {
	return m.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var blob []byte
	if err := row.Scan(&e.Ordinal, &e.ID, &e.Source, &e.PageNumber, &e.TotalPages, &e.Text, &blob); err != nil {
		return nil, err
	}
	e.Embedding = decodeEmbedding(blob)
	return &e, nil
}

// encodeEmbedding packs float32 values as little-endian bytes.
func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
