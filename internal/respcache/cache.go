package respcache

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Cache composes the memory and file tiers into one response cache.
type Cache struct {
	Memory *Memory
	Files  FileStore

	defaultTTL time.Duration
}

// New builds a two-tier cache. defaultTTL is the TTL applied to endpoints
// without a pattern-specific TTL; pass 0 for the built-in 30 minutes.
func New(maxMemoryEntries int, defaultTTL time.Duration, fileStorePath string, log zerolog.Logger) *Cache {
	return &Cache{
		Memory:     NewMemory(maxMemoryEntries),
		Files:      OpenFileStore(fileStorePath, log),
		defaultTTL: defaultTTL,
	}
}

// Close releases the file tier's resources.
func (c *Cache) Close() error {
	return c.Files.Close()
}

// Key builds a cache key of the form
// api_<endpoint-path-with-underscores>#sorted(k=v&...).
func Key(endpointPath string, params map[string]string) string {
	normalized := strings.ReplaceAll(strings.Trim(endpointPath, "/"), "/", "_")
	if len(params) == 0 {
		return "api_" + normalized
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return "api_" + normalized + "#" + strings.Join(parts, "&")
}

// TTLFor returns the TTL for a given endpoint path:
// members 12h, transcripts 24h, sitting detail 6h, sitting list 1h,
// otherwise the configured default (30min when unset).
func (c *Cache) TTLFor(endpointPath string) time.Duration {
	switch {
	case strings.Contains(endpointPath, "/MP"):
		return 12 * time.Hour
	case strings.Contains(endpointPath, "/transcripts"):
		return 24 * time.Hour
	case strings.Contains(endpointPath, "/proceedings/") && !strings.HasSuffix(endpointPath, "/proceedings"):
		return 6 * time.Hour
	case strings.HasSuffix(endpointPath, "/proceedings"):
		return 1 * time.Hour
	case c.defaultTTL > 0:
		return c.defaultTTL
	default:
		return 30 * time.Minute
	}
}
