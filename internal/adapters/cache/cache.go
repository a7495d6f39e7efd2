// Package cache implements ports.Cache as a SQLite-backed durable store
// with a ristretto hot-cache in front, so that repeated lookups of the same
// checksum within a run avoid a database round trip (§8's idempotence
// property).
package cache

import (
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/outcaste-io/ristretto"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite"
)

// Cache implements ports.Cache over five SQLite tables, one per logical map
// named in §4.2: archives_by_checksum, rpm_by_checksum, build_by_id,
// pnc_artifacts_by_checksum, pnc_build_by_id.
type Cache struct {
	db  *sql.DB
	hot *ristretto.Cache
	mu  sync.Mutex
}

// Open opens or creates the SQLite database at path and prepares the hot
// cache in front of it.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open cache database")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, zerr.Wrap(err, "failed to set WAL mode")
	}

	hot, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		db.Close()
		return nil, zerr.Wrap(err, "failed to create hot cache")
	}

	c := &Cache{db: db, hot: hot}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archives_by_checksum (
		checksum_type TEXT NOT NULL,
		checksum_value TEXT NOT NULL,
		archives_json TEXT NOT NULL,
		PRIMARY KEY (checksum_type, checksum_value)
	);
	CREATE TABLE IF NOT EXISTS rpm_by_checksum (
		checksum_type TEXT NOT NULL,
		checksum_value TEXT NOT NULL,
		rpm_json TEXT,
		PRIMARY KEY (checksum_type, checksum_value)
	);
	CREATE TABLE IF NOT EXISTS build_by_id (
		build_id INTEGER PRIMARY KEY,
		build_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS pnc_artifacts_by_checksum (
		checksum_value TEXT PRIMARY KEY,
		artifacts_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS pnc_build_by_id (
		build_id INTEGER PRIMARY KEY,
		build_json TEXT NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	if err != nil {
		return zerr.Wrap(err, "failed to migrate cache database")
	}
	return nil
}

// Close closes the database connection and hot cache.
func (c *Cache) Close() error {
	c.hot.Close()
	return c.db.Close()
}

func hotKey(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "\x00"
		}
		key += p
	}
	return key
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", zerr.Wrap(err, "failed to marshal cache value")
	}
	return string(data), nil
}

func decode[T any](data string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		var zero T
		return zero, zerr.Wrap(err, "failed to unmarshal cache value")
	}
	return v, nil
}
