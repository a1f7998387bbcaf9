// Command sejmbot-detektor runs the humor-fragment detection pipeline
// (internal/pipeline) for one parliamentary term. Flag parsing is kept
// deliberately minimal; the rest of the surface is config-driven
// (internal/config).
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/config"
	"github.com/sejmbot-go/detektor/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		term         = flag.Int("term", 0, "parliamentary term to scrape (default: config DEFAULT_TERM)")
		configPath   = flag.String("config", "config.yaml", "path to a YAML config overlay")
		keywordsPath = flag.String("keywords", "", "path to an external keyword config (JSON)")
		rosterPath   = flag.String("roster", "", "path to a pre-built roster file (JSON)")
		healthCheck  = flag.Bool("health-check", false, "run the health check instead of the pipeline")
	)
	flag.Parse()

	log := newLogger()

	cfg := config.Default()
	if err := cfg.LoadFromFile(*configPath); err != nil {
		log.Error().Err(err).Msg("failed to load config file")
		return 2
	}
	cfg.LoadFromEnv()
	if *term > 0 {
		cfg.DefaultTerm = *term
	}
	if *keywordsPath != "" {
		cfg.KeywordsFile = *keywordsPath
	}
	if *rosterPath != "" {
		cfg.RosterFile = *rosterPath
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}

	log = log.Level(parseLevel(cfg.Log.Level))

	driver, err := pipeline.NewDriver(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to construct pipeline driver")
		return 2
	}
	defer driver.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *healthCheck {
		report := driver.HealthCheck(ctx, cfg.DefaultTerm)
		log.Info().Int("api_score", report.API.Score).Strs("api_errors", report.API.Errors).Msg("upstream API health")
		for name, perr := range report.Providers {
			if perr != nil {
				log.Warn().Str("provider", string(name)).Err(perr).Msg("provider health check failed")
			} else {
				log.Info().Str("provider", string(name)).Msg("provider healthy")
			}
		}
		return 0
	}

	stats, err := driver.Run(ctx, cfg.DefaultTerm)
	if err != nil {
		log.Error().Err(err).Msg("pipeline run failed")
		return 1
	}

	log.Info().
		Int("sittings_seen", stats.SittingsSeen).
		Int("sittings_skipped", stats.SittingsSkipped).
		Int("sittings_fresh", stats.SittingsFresh).
		Int("days_processed", stats.DaysProcessed).
		Int("statements_fetched", stats.StatementsFetched).
		Int("transcripts_written", stats.TranscriptsWritten).
		Int("fragments_built", stats.FragmentsBuilt).
		Int("fragments_evaluated", stats.FragmentsEvaluated).
		Int("fragments_funny", stats.FragmentsFunny).
		Msg("run summary")
	return 0
}

func newLogger() zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
