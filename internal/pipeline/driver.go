// Package pipeline wires the subsystems into the end-to-end run: scrape
// a term's sittings, parse and score each day's statements, optionally
// evaluate the resulting fragments with an AI provider cascade, and
// persist a report. Owned subsystems are built once and passed by
// reference; there are no package-level globals.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/aieval"
	"github.com/sejmbot-go/detektor/internal/aiprovider"
	"github.com/sejmbot-go/detektor/internal/config"
	"github.com/sejmbot-go/detektor/internal/fragment"
	"github.com/sejmbot-go/detektor/internal/httpfetch"
	"github.com/sejmbot-go/detektor/internal/keywords"
	"github.com/sejmbot-go/detektor/internal/model"
	"github.com/sejmbot-go/detektor/internal/respcache"
	"github.com/sejmbot-go/detektor/internal/roster"
	"github.com/sejmbot-go/detektor/internal/sejmapi"
	"github.com/sejmbot-go/detektor/internal/store"
	"github.com/sejmbot-go/detektor/internal/transcript"
)

// minFetchBackoff/maxFetchBackoff bound the HTTP retry loop's backoff.
// Not exposed as configuration, unlike the request delay and retry
// count.
const (
	minFetchBackoff = 500 * time.Millisecond
	maxFetchBackoff = 30 * time.Second
)

// providerOrder is the fixed fallback sequence used when no provider is
// named primary, or once the primary has been tried.
var providerOrder = []string{"local", "free_remote", "paid_a", "paid_b"}

// Driver owns every subsystem for one pipeline run.
type Driver struct {
	cfg          *config.Config
	layout       store.Layout
	api          *sejmapi.Client
	cache        *respcache.Cache
	rosterMatch  *roster.Matcher
	parser       *transcript.Parser
	scorer       *keywords.Scorer
	extractor    *fragment.Extractor
	orchestrator *aieval.Orchestrator
	evalCache    *aieval.Cache
	log          zerolog.Logger
}

// NewDriver constructs a Driver from cfg. It never fetches over the
// network; Run performs all I/O.
func NewDriver(cfg *config.Config, log zerolog.Logger) (*Driver, error) {
	log = log.With().Str("component", "pipeline").Logger()

	fetcher := httpfetch.New(cfg.HTTP.RequestTimeout, cfg.HTTP.RequestDelay, cfg.HTTP.MaxRetries, minFetchBackoff, maxFetchBackoff, cfg.HTTP.UserAgent, log)
	cache := respcache.New(cfg.Cache.MaxMemoryEntries, cfg.Cache.MemoryTTL, filepath.Join(cfg.DataDir, cfg.Cache.Dir, "respcache.db"), log)
	api := sejmapi.New(fetcher, cache, cfg.HTTP.BaseURL, log)

	rosterData := roster.Data{Members: map[string]string{}}
	if cfg.RosterFile != "" {
		loaded, err := roster.Load(cfg.RosterFile)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.RosterFile).Msg("roster file unreadable, starting from an empty roster")
		} else {
			rosterData = loaded
		}
	}
	rosterMatch := roster.NewMatcher(rosterData, cfg.Detection.FuzzyMatchThreshold)
	parser := transcript.NewParser(rosterMatch)

	kwCfg := keywords.DefaultConfig()
	if cfg.KeywordsFile != "" {
		if err := kwCfg.LoadFile(cfg.KeywordsFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.KeywordsFile).Msg("keyword file unreadable, using embedded defaults")
		}
	}
	scorer := keywords.NewScorer(kwCfg)
	extractor := fragment.NewExtractor(scorer, cfg.Detection)

	d := &Driver{
		cfg:         cfg,
		layout:      store.NewLayout(cfg.DataDir),
		api:         api,
		cache:       cache,
		rosterMatch: rosterMatch,
		parser:      parser,
		scorer:      scorer,
		extractor:   extractor,
		log:         log,
	}

	orchestrator, evalCache, err := d.buildOrchestrator()
	if err != nil {
		return nil, fmt.Errorf("pipeline: build AI orchestrator: %w", err)
	}
	d.orchestrator = orchestrator
	d.evalCache = evalCache

	return d, nil
}

// buildOrchestrator assembles the evaluation orchestrator from every
// enabled adapter, primary provider first.
func (d *Driver) buildOrchestrator() (*aieval.Orchestrator, *aieval.Cache, error) {
	cfg := d.cfg
	var cache *aieval.Cache
	if cfg.AI.CacheDir != "" {
		dbPath := filepath.Join(cfg.DataDir, cfg.AI.CacheDir, "evaluations.db")
		c, err := aieval.OpenCache(dbPath)
		if err != nil {
			return nil, nil, err
		}
		cache = c
	}

	order := append([]string{}, providerOrder...)
	if cfg.AI.Primary != "" {
		order = reorderPrimaryFirst(order, cfg.AI.Primary)
	}

	var adapters []aiprovider.Adapter
	callsPerMinute := map[model.Provider]int{}
	for _, name := range order {
		pc, ok := cfg.AI.Providers[name]
		if !ok || !boolOr(pc.Enabled, false) {
			continue
		}
		adapter := newAdapter(name, pc, d.log)
		if adapter == nil {
			continue
		}
		adapters = append(adapters, adapter)
		callsPerMinute[adapter.Name()] = pc.CallsPerMinute
	}

	orchestrator := aieval.NewOrchestrator(adapters, callsPerMinute, cache, cfg.AI.MaxRetries, d.log)
	return orchestrator, cache, nil
}

func newAdapter(name string, pc config.ProviderConfig, log zerolog.Logger) aiprovider.Adapter {
	switch name {
	case "local":
		return aiprovider.NewLocalAdapter("", pc.Model)
	case "free_remote":
		return aiprovider.NewFreeRemoteAdapter("", pc.APIKey, pc.Model)
	case "paid_a":
		return aiprovider.NewPaidAAdapter(pc.APIKey, pc.Model, log)
	case "paid_b":
		return aiprovider.NewPaidBAdapter(pc.APIKey, pc.Model, log)
	default:
		return nil
	}
}

func reorderPrimaryFirst(order []string, primary string) []string {
	out := make([]string, 0, len(order))
	out = append(out, primary)
	for _, name := range order {
		if name != primary {
			out = append(out, name)
		}
	}
	return out
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Close releases every subsystem Driver owns.
func (d *Driver) Close() error {
	if d.evalCache != nil {
		d.evalCache.Flush()
		_ = d.evalCache.Close()
	}
	if d.cache != nil {
		return d.cache.Close()
	}
	return nil
}

// Run executes the full pipeline for one term and returns the
// accumulated Stats. It honors ctx cancellation at every statement,
// day, and sitting boundary.
func (d *Driver) Run(ctx context.Context, term int) (Stats, error) {
	runID := uuid.NewString()
	log := d.log.With().Str("run_id", runID).Int("term", term).Logger()
	log.Info().Msg("pipeline run starting")

	var stats Stats

	// Preload the member roster.
	if err := d.preloadRoster(ctx, term); err != nil {
		log.Warn().Err(err).Msg("roster preload failed, continuing with fuzzy-only matching")
	}

	// Fetch sittings; drop number 0, dedupe by number.
	sittings, err := d.api.Sittings(ctx, term)
	if err != nil {
		return stats, fmt.Errorf("pipeline: fetch sittings: %w", err)
	}
	sittings = dedupeSittings(sittings)

	var allFragments []model.Fragment
	today := time.Now().UTC().Format("2006-01-02")

	force := d.cfg.Mode == config.ModeForceRefresh

	for _, sitting := range sittings {
		if ctx.Err() != nil {
			break
		}
		stats.SittingsSeen++

		// Skip sittings wholly in the future.
		if sittingWhollyFuture(sitting, today) {
			log.Debug().Int("sitting", sitting.Number).Msg("future, skipped")
			stats.SittingsSkipped++
			continue
		}

		// File-tier refresh policy: a sitting checked recently enough for
		// its date mix is left alone unless force_refresh is on.
		if !d.cache.Files.ShouldRefreshSitting(term, sitting.Number, sitting.Dates, force, d.transcriptsComplete(term, sitting, today)) {
			stats.SittingsFresh++
			continue
		}

		if err := store.WriteSittingInfo(d.layout, sitting, ""); err != nil {
			log.Warn().Err(err).Int("sitting", sitting.Number).Msg("write sitting info failed")
		}

		dayFailures := 0
		for _, date := range sitting.Dates {
			if ctx.Err() != nil {
				break
			}
			if date >= today {
				continue
			}
			stats.DaysProcessed++

			dayFragments, err := d.processDay(ctx, term, sitting, date, &stats)
			if err != nil {
				log.Warn().Err(err).Int("sitting", sitting.Number).Str("date", date).Msg("day processing failed")
				dayFailures++
				continue
			}
			allFragments = append(allFragments, dayFragments...)
		}

		status := "ok"
		if dayFailures > 0 {
			status = "partial"
		}
		if err := d.cache.Files.MarkSittingChecked(term, sitting.Number, status); err != nil {
			log.Warn().Err(err).Int("sitting", sitting.Number).Msg("mark sitting checked failed")
		}
	}

	// Optionally evaluate fragments with the AI cascade.
	if d.orchestrator != nil && len(allFragments) > 0 {
		evaluated, report := d.orchestrator.EvaluateBatch(ctx, allFragments)
		allFragments = evaluated
		stats.FragmentsEvaluated += report.Total
		stats.FragmentsFunny += report.FunnyCount
		stats.EvaluationErrors += report.Errors
	}

	// Persist the final fragment list.
	resultStats := store.ResultsStats{
		UtterancesScanned: stats.UtterancesParsed,
		FragmentsFound:    len(allFragments),
		FragmentsFunny:    stats.FragmentsFunny,
		ProviderCounts:    providerCounts(allFragments),
	}
	source := fmt.Sprintf("term%d", term)
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	if err := store.WriteResults(d.layout, source, timestamp, allFragments, resultStats); err != nil {
		return stats, fmt.Errorf("pipeline: write results: %w", err)
	}

	if boolOr(d.cfg.Cache.EnableCleanup, true) {
		removed := d.cache.Memory.Cleanup()
		log.Debug().Int("removed", removed).Msg("memory cache cleanup")
	}

	log.Info().Int("fragments", len(allFragments)).Msg("pipeline run complete")
	return stats, nil
}

// HealthCheckReport summarizes the upstream API's and every enabled AI
// adapter's health.
type HealthCheckReport struct {
	API       sejmapi.HealthCheckResult
	Providers map[model.Provider]error
}

// HealthCheck exercises the upstream API client and every configured AI
// adapter without touching the scrape/detect/evaluate pipeline itself.
func (d *Driver) HealthCheck(ctx context.Context, term int) HealthCheckReport {
	report := HealthCheckReport{
		API:       d.api.HealthCheck(ctx, term),
		Providers: map[model.Provider]error{},
	}
	for _, name := range providerOrder {
		pc, ok := d.cfg.AI.Providers[name]
		if !ok || !boolOr(pc.Enabled, false) {
			continue
		}
		adapter := newAdapter(name, pc, d.log)
		if adapter == nil {
			continue
		}
		report.Providers[adapter.Name()] = adapter.HealthCheck(ctx)
	}
	return report
}

func (d *Driver) preloadRoster(ctx context.Context, term int) error {
	members, err := d.api.Members(ctx, term)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.Club == "" {
			continue
		}
		d.rosterMatch.AddMissing(m.FullName(), m.Club)
	}
	return nil
}

// transcriptsComplete reports whether every past date of a sitting already
// has a transcript file on disk, feeding the file tier's refresh bands.
func (d *Driver) transcriptsComplete(term int, sitting model.Sitting, today string) bool {
	for _, date := range sitting.Dates {
		if date >= today {
			continue
		}
		if !store.Exists(d.layout.TranscriptPath(term, sitting.Number, date)) {
			return false
		}
	}
	return true
}

// processDay fetches, persists, parses, and scores one sitting day and
// returns the day's Fragments. Statement HTML fetches run in parallel up
// to the configured concurrent_downloads; the fetcher's pacer still
// spaces actual egress.
func (d *Driver) processDay(ctx context.Context, term int, sitting model.Sitting, date string, stats *Stats) ([]model.Fragment, error) {
	statements, err := d.api.StatementsDay(ctx, term, sitting.Number, date)
	if err != nil {
		return nil, fmt.Errorf("fetch statements: %w", err)
	}

	workers := d.cfg.HTTP.ConcurrentDownloads
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range statements {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			text, err := d.api.StatementText(ctx, term, sitting.Number, date, statements[i].Num)
			if err != nil {
				return
			}
			statements[i].Text = text
		}(i)
	}
	wg.Wait()

	for i := range statements {
		stats.StatementsFetched++
		if statements[i].Text != "" {
			stats.StatementsWithText++
		}

		// Enrich with roster data.
		if statements[i].Club == "" {
			if club, ok := d.rosterMatch.FindClub(statements[i].SpeakerName); ok {
				statements[i].Club = club
			}
		}
	}

	// Write the transcript file atomically (omit if no content).
	tf := store.BuildTranscriptFile(term, sitting.Number, date, "", statements)
	if tf.HasContent() {
		path := d.layout.TranscriptPath(term, sitting.Number, date)
		if err := store.WriteTranscript(d.layout, tf); err != nil {
			d.log.Warn().Err(err).Str("date", date).Msg("write transcript failed")
		} else {
			stats.TranscriptsWritten++
			if err := d.cache.Files.RecordHash(path); err != nil {
				d.log.Warn().Err(err).Str("date", date).Msg("record transcript hash failed")
			}
		}
	}

	var fragments []model.Fragment
	for _, s := range statements {
		if ctx.Err() != nil {
			break
		}
		if s.Text == "" {
			continue
		}

		// Each API statement already carries its own num and speaker
		// identity, so parsing it in isolation (rather than the day's
		// concatenated text) ties every resulting Fragment to an
		// unambiguous StatementNum without inferring statement
		// boundaries from parser output.
		result := d.parser.Parse(s.Text, fmt.Sprintf("term%d/%d/%s/%d", term, sitting.Number, date, s.Num))
		stats.UtterancesParsed += len(result.Utterances)

		matches := d.scorer.DetectMatches(result.Utterances)
		stats.KeywordMatches += len(matches)

		built := d.extractor.Build(fragment.Input{
			StatementNum: s.Num,
			Utterances:   result.Utterances,
			Matches:      matches,
			RawText:      s.Text,
		})
		stats.addFragments(len(built))
		fragments = append(fragments, built...)
	}

	return fragments, nil
}

func dedupeSittings(sittings []model.Sitting) []model.Sitting {
	seen := map[int]bool{}
	out := make([]model.Sitting, 0, len(sittings))
	for _, s := range sittings {
		if s.Number == 0 || seen[s.Number] {
			continue
		}
		seen[s.Number] = true
		out = append(out, s)
	}
	return out
}

func sittingWhollyFuture(s model.Sitting, today string) bool {
	if len(s.Dates) == 0 {
		return false
	}
	for _, d := range s.Dates {
		if d < today {
			return false
		}
	}
	return true
}

func providerCounts(fragments []model.Fragment) map[string]int {
	counts := map[string]int{}
	for _, f := range fragments {
		if f.Evaluation == nil {
			continue
		}
		counts[string(f.Evaluation.ProviderUsed)]++
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}
