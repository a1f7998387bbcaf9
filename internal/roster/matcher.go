package roster

import "sync"

const defaultFuzzyThreshold = 0.8

// Matcher resolves a raw speaker string to a canonical club, backed by an
// exact-then-fuzzy lookup over a loaded roster. Implements
// internal/transcript.ClubFinder.
type Matcher struct {
	mu         sync.RWMutex
	members    map[string]string // full name -> club
	nameCache  map[string]string // normalized variant -> full name
	fuzzyCache map[string]fuzzyResult
	threshold  float64
}

type fuzzyResult struct {
	club  string
	found bool
}

// NewMatcher builds a Matcher from loaded roster data. threshold is the
// minimum similarity ratio a fuzzy match must reach; pass 0 for the
// inherited default of 0.8.
func NewMatcher(data Data, threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultFuzzyThreshold
	}
	m := &Matcher{
		members:    data.Members,
		nameCache:  map[string]string{},
		fuzzyCache: map[string]fuzzyResult{},
		threshold:  threshold,
	}
	m.buildNameCache()
	return m
}

func (m *Matcher) buildNameCache() {
	for fullName := range m.members {
		for _, variant := range normalizedVariants(fullName) {
			if variant == "" {
				continue
			}
			if _, exists := m.nameCache[variant]; !exists {
				m.nameCache[variant] = fullName
			}
		}
	}
}

// FindClub resolves speakerRaw (as it appears in a transcript, title and
// parenthetical aside included) to a canonical club name. The per-process
// fuzzy cache makes repeated lookups of the same raw string cheap.
func (m *Matcher) FindClub(speakerRaw string) (string, bool) {
	m.mu.RLock()
	if cached, ok := m.fuzzyCache[speakerRaw]; ok {
		m.mu.RUnlock()
		return cached.club, cached.found
	}
	m.mu.RUnlock()

	cleaned := extractNameFromSpeaker(speakerRaw)
	club, found := "", false
	if cleaned != "" {
		if c, ok := m.findExactMatch(cleaned); ok {
			club, found = c, true
		} else if c, ok := m.findFuzzyMatch(cleaned); ok {
			club, found = c, true
		}
	}

	m.mu.Lock()
	m.fuzzyCache[speakerRaw] = fuzzyResult{club: club, found: found}
	m.mu.Unlock()
	return club, found
}

func (m *Matcher) findExactMatch(name string) (string, bool) {
	for _, variant := range normalizedVariants(name) {
		if fullName, ok := m.nameCache[variant]; ok {
			club, ok := m.members[fullName]
			return club, ok
		}
	}
	return "", false
}

func (m *Matcher) findFuzzyMatch(name string) (string, bool) {
	normalizedInput := normalizeName(name, true, false)
	if normalizedInput == "" {
		return "", false
	}
	bestScore := 0.0
	bestName := ""
	for dbName := range m.members {
		score := lcsRatio(normalizedInput, normalizeName(dbName, false, false))
		if score > bestScore && score >= m.threshold {
			bestScore = score
			bestName = dbName
		}
	}
	if bestName == "" {
		return "", false
	}
	club, ok := m.members[bestName]
	return club, ok
}

// AddMissing registers a member discovered at runtime (not persisted to
// disk) and invalidates the fuzzy cache so future lookups reconsider it.
func (m *Matcher) AddMissing(name, club string) {
	if name == "" || club == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[name] = club
	for _, variant := range normalizedVariants(name) {
		if variant == "" {
			continue
		}
		if _, exists := m.nameCache[variant]; !exists {
			m.nameCache[variant] = name
		}
	}
	m.fuzzyCache = map[string]fuzzyResult{}
}
