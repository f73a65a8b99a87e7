package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileEntry holds the index state for a file.
type FileEntry struct {
	FilePath    string
	ContentHash string
	ScannedAt   time.Time
}

// SetFileScanned records that a file was extracted with the given hash.
func (c *Cache) SetFileScanned(path, hash string) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO file_index (file_path, content_hash, scanned_at)
		VALUES (?, ?, ?)`,
		path, hash, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set file scanned %s: %w", path, err)
	}
	return nil
}

// GetFileHash retrieves the last recorded hash for a file.
// Returns sql.ErrNoRows if the file has not been indexed.
func (c *Cache) GetFileHash(path string) (string, error) {
	var hash string
	err := c.db.QueryRow("SELECT content_hash FROM file_index WHERE file_path = ?", path).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("get file hash %s: %w", path, err)
	}
	return hash, nil
}

// IsFileChanged reports whether a file's hash differs from the indexed one.
// Files never indexed count as changed.
func (c *Cache) IsFileChanged(path, newHash string) (bool, error) {
	oldHash, err := c.GetFileHash(path)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return oldHash != newHash, nil
}

// GetAllFileEntries retrieves all file entries ordered by path.
func (c *Cache) GetAllFileEntries() ([]FileEntry, error) {
	rows, err := c.db.Query(`
		SELECT file_path, content_hash, scanned_at FROM file_index ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("query file entries: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var entry FileEntry
		var scannedAt string
		if err := rows.Scan(&entry.FilePath, &entry.ContentHash, &scannedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entry.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// DeleteFileEntry removes a file from the index.
func (c *Cache) DeleteFileEntry(path string) error {
	_, err := c.db.Exec("DELETE FROM file_index WHERE file_path = ?", path)
	if err != nil {
		return fmt.Errorf("delete file entry %s: %w", path, err)
	}
	return nil
}

// PruneStaleEntries removes index entries under root whose paths are not in
// validPaths and returns how many were removed. Entries outside root are kept,
// so walks of different directories share one index.
func (c *Cache) PruneStaleEntries(root string, validPaths map[string]bool) (int, error) {
	entries, err := c.GetAllFileEntries()
	if err != nil {
		return 0, err
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	var pruned int
	for _, entry := range entries {
		if !strings.HasPrefix(entry.FilePath, prefix) || validPaths[entry.FilePath] {
			continue
		}
		if err := c.DeleteFileEntry(entry.FilePath); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
