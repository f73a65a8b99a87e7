package cache

// schemaSQL defines the SQLite schema for the cache database.
// Tables:
//   - extractions: field records as JSON, keyed by Key
//   - file_index: content hash per file path for --changed runs
const schemaSQL = `
CREATE TABLE IF NOT EXISTS extractions (
    content_hash TEXT PRIMARY KEY,
    fields TEXT NOT NULL,
    extracted_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_index (
    file_path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    scanned_at TEXT NOT NULL
);
`

func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
