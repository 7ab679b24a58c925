package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/config"
	"github.com/ziadkadry99/fc-companion/internal/db"
	"github.com/ziadkadry99/fc-companion/internal/detector"
	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/logging"
	"github.com/ziadkadry99/fc-companion/internal/metrics"
	"github.com/ziadkadry99/fc-companion/internal/neynar"
	"github.com/ziadkadry99/fc-companion/internal/quality"
	"github.com/ziadkadry99/fc-companion/internal/radar"
	"github.com/ziadkadry99/fc-companion/internal/vault"
)

var (
	heading = color.New(color.Bold).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

// loadConfig loads .env, then the config file, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `companion init` to create a config file", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// app holds what every data command needs: config, logger, database and the
// loaded knowledge library.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	db        *db.DB
	store     *knowledge.Store
	knowledge *knowledge.Repository
	reports   *companion.ReportStore
}

// openApp loads config and opens the database. The knowledge store is
// filled from the database and topped up with bootstrap entries.
func openApp(ctx context.Context, validate bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		db:        database,
		store:     knowledge.NewStore(),
		knowledge: knowledge.NewRepository(database),
		reports:   companion.NewReportStore(database),
	}
	loaded, seeded, err := a.knowledge.LoadInto(ctx, a.store, time.Now())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading knowledge: %w", err)
	}
	if seeded > 0 {
		if err := a.knowledge.SaveStore(ctx, a.store); err != nil {
			database.Close()
			return nil, fmt.Errorf("saving seeded knowledge: %w", err)
		}
	}
	log.WithFields(logrus.Fields{"loaded": loaded, "seeded": seeded, "db": database.Path()}).Debug("knowledge: library ready")
	return a, nil
}

func (a *app) Close() error { return a.db.Close() }

// source builds the configured feed source.
func (a *app) source() (feed.Source, error) {
	switch a.cfg.Feed.Source {
	case config.SourceFile:
		return feed.NewFileSource(a.cfg.Feed.File), nil
	default:
		if err := a.cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
		return neynar.NewClient(a.cfg.NeynarClientConfig(), a.log), nil
	}
}

// generator wires the full pipeline.
func (a *app) generator(collector *metrics.Collector) (*companion.Generator, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}
	return &companion.Generator{
		Source:     src,
		Scorer:     radar.NewScorer(a.cfg.Radar.Weights, nil, a.log),
		Classifier: quality.NewClassifier(a.cfg.Quality.Weights, a.cfg.QualityOptions()),
		Assembler:  companion.NewAssembler(detector.New(a.store)),
		Learner:    knowledge.NewLearner(a.store, nil, a.log),
		Store:      a.store,
		Knowledge:  a.knowledge,
		Artifacts:  vault.New(a.cfg.VaultPath),
		Reports:    a.reports,
		Metrics:    collector,
		Log:        a.log,
	}, nil
}

func printLearnResult(r knowledge.LearnResult) {
	fmt.Printf("  Created:       %s\n", good(len(r.Created)))
	for _, e := range r.Created {
		fmt.Printf("                 + %s (%s)\n", e.ID, e.Type)
	}
	fmt.Printf("  Updated:       %d\n", len(r.Updated))
	fmt.Printf("  Below minimum: %d\n", r.BelowMinimum)
	if r.Skipped > 0 {
		fmt.Printf("  Skipped:       %d\n", r.Skipped)
	}
	if r.Rejected > 0 {
		fmt.Printf("  Rejected:      %s\n", warn(r.Rejected))
	}
}
