package keywords

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// fileKeyword is one entry of the external keyword configuration file:
// [{keyword: string, weight: float}], weight defaulting to 1.0.
type fileKeyword struct {
	Keyword string  `json:"keyword"`
	Weight  float64 `json:"weight"`
}

// LoadFile overlays keyword entries from an external JSON file onto cfg.
// A zero or negative weight is normalized to 1. A missing file is not an
// error, consistent with other optional overlays in this system.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read keyword config %q: %w", path, err)
	}
	var entries []fileKeyword
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse keyword config %q: %w", path, err)
	}
	if c.FunnyKeywords == nil {
		c.FunnyKeywords = map[string]int{}
	}
	for _, e := range entries {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" {
			continue
		}
		w := int(e.Weight)
		if w <= 0 {
			w = 1
		}
		if w > 4 {
			w = 4
		}
		c.FunnyKeywords[kw] = w
	}
	return nil
}
