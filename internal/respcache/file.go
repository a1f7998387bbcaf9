package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

var (
	fileHashesBucket    = []byte("file_hashes")
	sittingChecksBucket = []byte("sitting_checks")
)

// FileStore is the on-disk cache tier: it tracks persisted artifacts by
// content hash and records "last checked" markers for the should-refresh
// policy. A pure in-memory fallback covers the case where the store
// can't be opened (e.g. permission denied).
type FileStore interface {
	HasFileCache(path string, checkContent bool) bool
	RecordHash(path string) error
	MarkSittingChecked(term, sittingID int, status string) error
	ShouldRefreshSitting(term, sittingID int, dates []string, force bool, transcriptsComplete bool) bool
	Close() error
}

type sittingCheck struct {
	CheckedAt time.Time `json:"checked_at"`
	Status    string    `json:"status"`
}

// OpenFileStore opens (or creates) a bbolt-backed FileStore at path. On
// failure to open the file (e.g. permission denied), it logs a warning and
// falls back to an in-memory-only store rather than failing the caller.
func OpenFileStore(path string, log zerolog.Logger) FileStore {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot create cache directory, using in-memory file tier")
		return newMemoryFileStore()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot open file cache, using in-memory file tier")
		return newMemoryFileStore()
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(fileHashesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(sittingChecksBucket)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("cannot initialize file cache buckets, using in-memory file tier")
		db.Close()
		return newMemoryFileStore()
	}
	return &boltFileStore{db: db, log: log}
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type boltFileStore struct {
	db  *bolt.DB
	log zerolog.Logger
}

func (s *boltFileStore) Close() error { return s.db.Close() }

func (s *boltFileStore) HasFileCache(path string, checkContent bool) bool {
	var stored string
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(fileHashesBucket)
		v := b.Get([]byte(path))
		if v != nil {
			stored = string(v)
		}
		return nil
	})
	if stored == "" {
		return false
	}
	if !checkContent {
		return true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return sha256Hex(data) == stored
}

func (s *boltFileStore) RecordHash(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q for hashing: %w", path, err)
	}
	hash := sha256Hex(data)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(fileHashesBucket).Put([]byte(path), []byte(hash))
	})
}

func (s *boltFileStore) MarkSittingChecked(term, sittingID int, status string) error {
	key := sittingKey(term, sittingID)
	payload, err := json.Marshal(sittingCheck{CheckedAt: time.Now().UTC(), Status: status})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sittingChecksBucket).Put([]byte(key), payload)
	})
}

// ShouldRefreshSitting decides whether a sitting's data is due for a
// re-fetch based on when it was last checked and its date mix.
func (s *boltFileStore) ShouldRefreshSitting(term, sittingID int, dates []string, force bool, transcriptsComplete bool) bool {
	if force {
		return true
	}
	var check sittingCheck
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sittingChecksBucket).Get([]byte(sittingKey(term, sittingID)))
		if v == nil {
			return nil
		}
		found = json.Unmarshal(v, &check) == nil
		return nil
	})
	if !found {
		return true
	}
	return shouldRefresh(check.CheckedAt, dates, transcriptsComplete)
}

func sittingKey(term, sittingID int) string {
	return fmt.Sprintf("sitting:%d:%d", term, sittingID)
}

// shouldRefresh applies the three-band refresh policy: future-only
// sittings re-check daily, fully archived ones weekly, mixed or partial
// ones every two hours.
func shouldRefresh(checkedAt time.Time, dates []string, transcriptsComplete bool) bool {
	age := time.Since(checkedAt)
	allFuture, allPast := classifyDates(dates)
	switch {
	case allFuture:
		return age >= 24*time.Hour
	case allPast && transcriptsComplete:
		return age >= 168*time.Hour
	default:
		return age >= 2*time.Hour
	}
}

func classifyDates(dates []string) (allFuture, allPast bool) {
	today := time.Now().UTC().Format("2006-01-02")
	allFuture, allPast = true, true
	for _, d := range dates {
		if d <= today {
			allFuture = false
		}
		if d >= today {
			allPast = false
		}
	}
	if len(dates) == 0 {
		allFuture, allPast = false, false
	}
	return
}

// memoryFileStore is the in-process fallback used when bbolt can't be
// opened (disk permission error etc.).
type memoryFileStore struct {
	mu     sync.Mutex
	hashes map[string]string
	checks map[string]sittingCheck
}

func newMemoryFileStore() FileStore {
	return &memoryFileStore{
		hashes: make(map[string]string),
		checks: make(map[string]sittingCheck),
	}
}

func (s *memoryFileStore) Close() error { return nil }

func (s *memoryFileStore) HasFileCache(path string, checkContent bool) bool {
	s.mu.Lock()
	stored, ok := s.hashes[path]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if !checkContent {
		return true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return sha256Hex(data) == stored
}

func (s *memoryFileStore) RecordHash(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hashes[path] = sha256Hex(data)
	s.mu.Unlock()
	return nil
}

func (s *memoryFileStore) MarkSittingChecked(term, sittingID int, status string) error {
	s.mu.Lock()
	s.checks[sittingKey(term, sittingID)] = sittingCheck{CheckedAt: time.Now().UTC(), Status: status}
	s.mu.Unlock()
	return nil
}

func (s *memoryFileStore) ShouldRefreshSitting(term, sittingID int, dates []string, force bool, transcriptsComplete bool) bool {
	if force {
		return true
	}
	s.mu.Lock()
	check, found := s.checks[sittingKey(term, sittingID)]
	s.mu.Unlock()
	if !found {
		return true
	}
	return shouldRefresh(check.CheckedAt, dates, transcriptsComplete)
}
