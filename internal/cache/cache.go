// Package cache provides a SQLite-backed cache of extraction results and a
// file index for incremental runs. The cache is stored in .jfields/cache.db.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jfields/jfields/internal/extract"
	_ "modernc.org/sqlite"
)

// FileName is the database file inside the config directory.
const FileName = "cache.db"

// keyVersion is mixed into every key. Bump it when extraction output changes
// for the same input so old entries stop matching.
const keyVersion = "v1"

// Cache manages the cache database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database in dir.
// It initializes the schema if the database is new.
func Open(dir string) (*Cache, error) {
	dbPath := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// WAL lets a reader run beside the CLI writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes all cached extractions and file index entries.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM extractions; DELETE FROM file_index;")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Key derives the cache key for decoded source extracted with opts.
func Key(source []byte, opts extract.Options) string {
	policy := opts.MultiVariable
	if policy == "" {
		policy = extract.MultiVariableEach
	}

	h := sha256.New()
	h.Write([]byte(keyVersion))
	h.Write([]byte{0})
	h.Write([]byte(policy))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached fields for key. The boolean is false on a miss.
func (c *Cache) Get(key string) ([]extract.FieldRecord, bool, error) {
	var raw string
	err := c.db.QueryRow("SELECT fields FROM extractions WHERE content_hash = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get extraction %s: %w", key, err)
	}

	fields := []extract.FieldRecord{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, false, fmt.Errorf("decode extraction %s: %w", key, err)
	}
	return fields, true, nil
}

// Put stores the fields extracted for key. Only successful extractions
// belong here; parse failures are never cached.
func (c *Cache) Put(key string, fields []extract.FieldRecord) error {
	if fields == nil {
		fields = []extract.FieldRecord{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode extraction: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO extractions (content_hash, fields, extracted_at)
		VALUES (?, ?, ?)`,
		key, string(raw), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put extraction %s: %w", key, err)
	}
	return nil
}

// Stats returns cache statistics.
type Stats struct {
	ExtractionCount int64 `json:"extractions" yaml:"extractions"`
	FileIndexCount  int64 `json:"files" yaml:"files"`
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats

	err := c.db.QueryRow("SELECT COUNT(*) FROM extractions").Scan(&stats.ExtractionCount)
	if err != nil {
		return nil, fmt.Errorf("count extractions: %w", err)
	}

	err = c.db.QueryRow("SELECT COUNT(*) FROM file_index").Scan(&stats.FileIndexCount)
	if err != nil {
		return nil, fmt.Errorf("count file index: %w", err)
	}

	return &stats, nil
}
