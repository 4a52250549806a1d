package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pfrederiksen/cityevents/internal/config"
	"github.com/pfrederiksen/cityevents/internal/fetch"
	"github.com/pfrederiksen/cityevents/internal/horoscope"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/metrics"
	"github.com/pfrederiksen/cityevents/internal/scraper"
	"github.com/pfrederiksen/cityevents/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "cityevents",
		Short: "Scrape metro-area community events and daily horoscopes",
		Long: `A CLI tool to scrape community events for US metro areas, store them in
a SQL database and query them, plus fetch the daily horoscope for every sign.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config file (default: config.yaml in ., ./config or ~/.config/cityevents)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: json or text (overrides config)")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output and debug logging")

	cmd.AddCommand(
		newScrapeCmd(opts),
		newEventsCmd(opts),
		newHoroscopeCmd(opts),
		newCitiesCmd(opts),
		newMigrateCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

// Execute runs the CLI
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := NewRootCmd()
	root.Version = version
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

// app holds what every command builds from configuration.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

func newApp(opts *globalOptions, logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	levelName := cfg.Log.Level
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	level := logger.ParseLevel(levelName)
	if opts.verbose {
		level = logger.LevelDebug
	}

	format := logger.Format(strings.ToLower(cfg.Log.Format))
	if opts.logFormat != "" {
		format = logger.Format(strings.ToLower(opts.logFormat))
	}

	return &app{
		cfg:     cfg,
		log:     logger.NewWithFormat(level, format, logOutput),
		metrics: metrics.New(),
	}, nil
}

// scraper builds the event scraper on its own pooled client.
func (a *app) scraper(fetchDetails bool) *scraper.Scraper {
	fc := fetch.New(fetch.Options{
		Timeout:   a.cfg.HTTP.Timeout,
		UserAgent: a.cfg.HTTP.UserAgent,
		Referer:   strings.TrimRight(a.cfg.Sulekha.BaseURL, "/") + "/",
		DelayMin:  a.cfg.HTTP.DelayMin,
		DelayMax:  a.cfg.HTTP.DelayMax,
	})
	return scraper.New(fc, scraper.Options{
		BaseURL:           a.cfg.Sulekha.BaseURL,
		FetchDetails:      fetchDetails && a.cfg.HTTP.FetchDetails,
		DetailConcurrency: a.cfg.HTTP.DetailConcurrency,
		Logger:            a.log.With(logger.Fields{"component": "scraper"}),
		Metrics:           a.metrics,
	})
}

func (a *app) horoscopes() *horoscope.Client {
	fc := fetch.New(fetch.Options{
		Timeout:   a.cfg.HTTP.Timeout,
		UserAgent: a.cfg.HTTP.UserAgent,
	})
	return horoscope.New(fc, horoscope.Options{
		BaseURL:     a.cfg.Horoscope.BaseURL,
		Concurrency: a.cfg.Horoscope.Concurrency,
		Logger:      a.log.With(logger.Fields{"component": "horoscope"}),
		Metrics:     a.metrics,
	})
}

// openStore opens the configured database and makes sure the tables exist.
func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	db := a.cfg.Database
	store, err := storage.Open(ctx, db.Driver, db.DSN, db.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	a.log.Debug("Database ready", logger.Fields{"driver": db.Driver})
	return store, nil
}
