package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/pario-ai/sgpt/pkg/metrics"
	"github.com/pario-ai/sgpt/pkg/models"
)

// Cache is a bounded, exact-match completion cache. Recency is tracked in
// memory by an LRU list and every mutation is written through to a SQLite
// file, so the cache survives process-per-invocation usage.
//
// Cache is not meant to be shared between processes; concurrent writers to
// the same file resolve as last writer wins.
type Cache struct {
	path   string
	length int

	mu       sync.Mutex
	db       *sql.DB
	entries  *lru.Cache[string, string]
	seq      int64
	evictErr error

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	access_seq INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// busyTimeout is how long opening waits for another process's lock.
var busyTimeout = 5 * time.Second

// errCorrupt marks a cache file whose contents cannot be used.
var errCorrupt = errors.New("cache db corrupt")

// New opens the cache file at path holding at most length entries.
// A corrupt file or one with a foreign schema is discarded and the cache
// starts empty. A file locked by another process is left alone and an
// error is returned.
func New(path string, length int) (*Cache, error) {
	if length <= 0 {
		return nil, fmt.Errorf("cache length must be greater than 0, got %d", length)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	c := &Cache{path: path, length: length}
	if err := c.open(); err != nil {
		if !isCorrupt(err) {
			return nil, err
		}
		logrus.WithError(err).WithField("path", path).Warn("cache file unreadable, starting with an empty cache")
		for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reset cache db: %w", err)
			}
		}
		if err := c.open(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// open connects to the database, migrates it and loads all rows oldest first.
func (c *Cache) open() error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", c.path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return fmt.Errorf("migrate cache db: %w", err)
	}

	entries, err := c.newLRU()
	if err != nil {
		db.Close()
		return err
	}
	c.db = db
	c.entries = entries
	c.seq = 0

	if err := c.load(); err != nil {
		db.Close()
		c.db = nil
		return fmt.Errorf("load cache db: %w", err)
	}
	return nil
}

func (c *Cache) newLRU() (*lru.Cache[string, string], error) {
	entries, err := lru.NewWithEvict[string, string](c.length, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return entries, nil
}

// load replays persisted rows in recency order. Ties on access_seq fall back
// to insertion order. Rows beyond the configured length are evicted.
func (c *Cache) load() error {
	rows, err := c.db.Query(`SELECT key, value, access_seq FROM cache_entries ORDER BY access_seq, rowid`)
	if err != nil {
		return unreadable(err)
	}

	var loaded []models.CacheEntry
	for rows.Next() {
		var e models.CacheEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.AccessSeq); err != nil {
			rows.Close()
			return unreadable(err)
		}
		loaded = append(loaded, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return unreadable(err)
	}
	rows.Close()

	for _, e := range loaded {
		c.entries.Add(e.Key, e.Value)
		if e.AccessSeq > c.seq {
			c.seq = e.AccessSeq
		}
	}
	return c.takeEvictErr()
}

// unreadable marks a failure to read the cache rows as corruption, unless
// the database was only locked.
func unreadable(err error) error {
	if isLocked(err) {
		return err
	}
	return fmt.Errorf("%w: %w", errCorrupt, err)
}

func sqliteCode(err error) (int, bool) {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}

func isLocked(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED)
}

func isCorrupt(err error) bool {
	if errors.Is(err, errCorrupt) {
		return true
	}
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_CORRUPT || code == sqlite3.SQLITE_NOTADB)
}

// onEvict runs synchronously inside entries.Add while c.mu is held.
func (c *Cache) onEvict(key, _ string) {
	c.evictions.Add(1)
	metrics.CacheEvictionsTotal.Inc()
	if _, err := c.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil && c.evictErr == nil {
		c.evictErr = fmt.Errorf("cache evict: %w", err)
	}
	logrus.WithField("key", key).Debug("cache entry evicted")
}

func (c *Cache) takeEvictErr() error {
	err := c.evictErr
	c.evictErr = nil
	return err
}

// Lookup returns the cached completion for key and marks it most recently used.
func (c *Cache) Lookup(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries.Get(key)
	if !ok {
		c.misses.Add(1)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return "", false
	}

	c.seq++
	if _, err := c.db.ExecContext(ctx, `UPDATE cache_entries SET access_seq = ? WHERE key = ?`, c.seq, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to persist cache recency")
	}

	c.hits.Add(1)
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return value, true
}

// Store inserts or overwrites a completion. If the number of entries then
// exceeds the configured length, the least recently used entry is evicted.
func (c *Cache) Store(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, access_seq, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, access_seq = excluded.access_seq, created_at = excluded.created_at`,
		key, value, c.seq, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}

	c.entries.Add(key, value)
	return c.takeEvictErr()
}

// Stats returns cache size and performance counters for this process.
func (c *Cache) Stats() (models.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&count); err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Entries:   count,
		Capacity:  c.length,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}, nil
}

// Clear removes all cache entries.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	entries, err := c.newLRU()
	if err != nil {
		return err
	}
	c.entries = entries
	return nil
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
