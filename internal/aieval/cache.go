// Package aieval implements the AI evaluation orchestrator:
// content-addressed cache probe, priority-ordered provider cascade,
// per-provider rate limiting, and retry with linear backoff.
package aieval

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sejmbot-go/detektor/internal/model"
)

// Cache is the sqlite3-backed, content-addressed evaluation cache, keyed
// by SHA-256(normalize(fragment text)). Writes are checkpointed to disk
// every checkpointEvery inserts, with a final checkpoint at batch end.
type Cache struct {
	mu     sync.Mutex
	db     *sql.DB
	writes int
}

const checkpointEvery = 10

// OpenCache opens (or creates) a sqlite3-backed Cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("aieval: open cache: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS evaluations (
		hash TEXT PRIMARY KEY,
		is_funny INTEGER NOT NULL,
		confidence REAL NOT NULL,
		reason TEXT NOT NULL,
		provider TEXT NOT NULL,
		evaluated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("aieval: create cache table: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NormalizeForHash lowercases and collapses whitespace.
func NormalizeForHash(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// HashFragmentText computes the cache key for fragment text.
func HashFragmentText(text string) string {
	sum := sha256.Sum256([]byte(NormalizeForHash(text)))
	return hex.EncodeToString(sum[:])
}

// Get returns a cached evaluation for hash, or ok=false on a miss.
func (c *Cache) Get(hash string) (model.Evaluation, bool) {
	var (
		isFunny     int
		confidence  float64
		reason      string
		provider    string
		evaluatedAt string
	)
	row := c.db.QueryRow(`SELECT is_funny, confidence, reason, provider, evaluated_at FROM evaluations WHERE hash = ?`, hash)
	if err := row.Scan(&isFunny, &confidence, &reason, &provider, &evaluatedAt); err != nil {
		return model.Evaluation{}, false
	}
	ts, _ := time.Parse(time.RFC3339Nano, evaluatedAt)
	return model.Evaluation{
		IsFunny:      isFunny != 0,
		Confidence:   confidence,
		Reason:       reason,
		ProviderUsed: model.Provider(provider),
		Cached:       true,
		EvaluatedAt:  ts,
	}, true
}

// Set persists an evaluation under hash, checkpointing to disk every
// checkpointEvery writes.
func (c *Cache) Set(hash string, eval model.Evaluation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	isFunny := 0
	if eval.IsFunny {
		isFunny = 1
	}
	_, err := c.db.Exec(
		`INSERT INTO evaluations (hash, is_funny, confidence, reason, provider, evaluated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET is_funny=excluded.is_funny, confidence=excluded.confidence,
			reason=excluded.reason, provider=excluded.provider, evaluated_at=excluded.evaluated_at`,
		hash, isFunny, eval.Confidence, eval.Reason, string(eval.ProviderUsed), eval.EvaluatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("aieval: write cache entry: %w", err)
	}

	c.writes++
	if c.writes%checkpointEvery == 0 {
		c.checkpointLocked()
	}
	return nil
}

// Flush forces a WAL checkpoint.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpointLocked()
}

func (c *Cache) checkpointLocked() {
	_, _ = c.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`)
}
