// Command ingest builds the football quiz dataset.
//
// Usage:
//
//	quiz-ingest roster
//	quiz-ingest roster --source wikidata
//	quiz-ingest filter
//	quiz-ingest qualify
//	quiz-ingest qualify --from roster --fresh
//	quiz-ingest memberships
//	quiz-ingest logos resolve
//	quiz-ingest logos download
//	quiz-ingest run
//	quiz-ingest stages
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-quiz/internal/config"
	"github.com/albapepper/scoracle-quiz/internal/logo"
	"github.com/albapepper/scoracle-quiz/internal/membership"
	"github.com/albapepper/scoracle-quiz/internal/pipeline"
	"github.com/albapepper/scoracle-quiz/internal/qualify"
	"github.com/albapepper/scoracle-quiz/internal/store"
	"github.com/albapepper/scoracle-quiz/internal/wiki"
	"github.com/albapepper/scoracle-quiz/internal/wikidata"
)

const (
	sourceCategory = "category"
	sourceWikidata = "wikidata"
)

var (
	logger  = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	verbose bool
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "quiz-ingest",
		Short: "Football quiz dataset builder",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			slog.SetDefault(logger)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(rosterCmd())
	root.AddCommand(filterCmd())
	root.AddCommand(qualifyCmd())
	root.AddCommand(membershipsCmd())
	root.AddCommand(logosCmd())
	root.AddCommand(runCmd())
	root.AddCommand(stagesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Stage commands
// --------------------------------------------------------------------------

func rosterCmd() *cobra.Command {
	var (
		source     string
		categories []string
	)
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Collect candidate players from league categories or Wikidata",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source != sourceCategory && source != sourceWikidata {
				return fmt.Errorf("--source must be %q or %q", sourceCategory, sourceWikidata)
			}
			return runStage(func(ctx context.Context, a *app) error {
				a.opts.Categories = categories
				return a.roster(ctx, source)
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", sourceCategory, "Roster source (category, wikidata)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Override the league player categories")
	return cmd
}

func filterCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Keep roster players with a club spell since SINCE_YEAR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				return a.filter(ctx, fresh)
			})
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Discard the checkpoint and start over")
	return cmd
}

func qualifyCmd() *cobra.Command {
	var (
		from  string
		fresh bool
	)
	cmd := &cobra.Command{
		Use:   "qualify",
		Short: "Parse careers and keep qualifying players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				return a.qualify(ctx, from, fresh)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", pipeline.StageFiltered, "Input stage (filtered, roster)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Discard the checkpoint and start over")
	return cmd
}

func membershipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "memberships",
		Short: "Fetch Wikidata team memberships of qualified players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				return a.stage(ctx, "Memberships", a.runner().Memberships)
			})
		},
	}
}

func logosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logos",
		Short: "Resolve and download team crests",
	}

	var fresh bool
	resolve := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a crest for every team and write the detailed dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				return a.logos(ctx, fresh)
			})
		},
	}
	resolve.Flags().BoolVar(&fresh, "fresh", false, "Discard the checkpoint and start over")

	download := &cobra.Command{
		Use:   "download",
		Short: "Download resolved crests into LOGO_DIR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				return a.stage(ctx, "Crest download", a.runner().DownloadLogos)
			})
		},
	}

	cmd.AddCommand(resolve, download)
	return cmd
}

func runCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run roster, filter, qualify and logo resolution in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				if err := a.roster(ctx, source); err != nil {
					return err
				}
				from := pipeline.StageFiltered
				if source == sourceWikidata {
					// the knowledge-base roster is already filtered by its query
					from = pipeline.StageRoster
				} else if err := a.filter(ctx, false); err != nil {
					return err
				}
				if err := a.qualify(ctx, from, false); err != nil {
					return err
				}
				return a.logos(ctx, false)
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", sourceCategory, "Roster source (category, wikidata)")
	return cmd
}

func stagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List saved stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(func(ctx context.Context, a *app) error {
				stages, err := a.store.Stages(ctx)
				if err != nil {
					return err
				}
				for _, s := range stages {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// app wires the upstream clients and the store for one command.
type app struct {
	store store.Store
	deps  pipeline.Deps
	opts  pipeline.Options
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	wikiClient := wiki.NewClient(wiki.Options{
		BaseURL:   cfg.WikipediaURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Delay:     cfg.RequestDelay,
		Logger:    logger,
	})
	kb := wikidata.NewClient(wikidata.Options{
		SPARQLURL: cfg.WikidataSPARQLURL,
		EntityURL: cfg.WikidataURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Delay:     cfg.RequestDelay,
		Logger:    logger,
	})

	seasons, err := membership.NewResolver(wikiClient, 0, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	engine := qualify.NewEngine(seasons, qualify.Options{
		MinSeasons: cfg.MinSeasons,
		RecentYear: cfg.RecentYear,
		Horizon:    cfg.SeasonHorizon,
	}, logger)

	crests, err := newCrestResolver(cfg, wikiClient, kb)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &app{
		store: st,
		deps: pipeline.Deps{
			Store:      st,
			Pages:      wikiClient,
			KB:         kb,
			Entities:   kb,
			Qualifier:  engine,
			Crests:     crests,
			CrestStore: logo.NewDownloader(wikiClient, cfg.LogoDir, logger),
		},
		opts: pipeline.Options{
			SinceYear:   cfg.SinceYear,
			RecentYear:  cfg.RecentYear,
			Horizon:     cfg.SeasonHorizon,
			PlayerDelay: cfg.PlayerDelay,
		},
	}, nil
}

// newCrestResolver builds the crest resolver from the configured tables.
func newCrestResolver(cfg *config.Config, w *wiki.Client, kb *wikidata.Client) (*logo.Resolver, error) {
	tables, err := config.LoadLogoTables(cfg.LogoTablesFile)
	if err != nil {
		return nil, err
	}
	opts := logo.Options{
		Tables:   tables,
		Default:  cfg.DefaultLogo,
		Entities: kb,
		Logger:   logger,
	}
	if cfg.ImageSearchURL != "" {
		opts.Search = logo.NewSearchClient(cfg.ImageSearchURL, logger)
	}
	return logo.NewResolver(w, opts)
}

func (a *app) runner() *pipeline.Runner {
	return pipeline.New(a.deps, a.opts, logger)
}

// stage runs one pipeline stage and logs its summary and errors.
func (a *app) stage(ctx context.Context, name string, fn func(context.Context) (pipeline.Result, error)) error {
	start := time.Now()
	result, err := fn(ctx)
	logger.Info(name+" finished", "duration", time.Since(start).Round(time.Second), "summary", result.Summary())
	for _, e := range result.Errors {
		logger.Error("stage error", "stage", name, "error", e)
	}
	return err
}

func (a *app) roster(ctx context.Context, source string) error {
	r := a.runner()
	if source == sourceWikidata {
		return a.stage(ctx, "Knowledge-base roster", r.BuildRosterFromKnowledgeBase)
	}
	return a.stage(ctx, "Roster", r.BuildRoster)
}

func (a *app) filter(ctx context.Context, fresh bool) error {
	r := a.runner()
	if fresh {
		if err := r.Reset(ctx, pipeline.StageFiltered); err != nil {
			return err
		}
	}
	return a.stage(ctx, "Filter", r.FilterRoster)
}

func (a *app) qualify(ctx context.Context, from string, fresh bool) error {
	r := a.runner()
	if fresh {
		if err := r.Reset(ctx, pipeline.StageQualified); err != nil {
			return err
		}
	}
	return a.stage(ctx, "Qualify", func(ctx context.Context) (pipeline.Result, error) {
		return r.Qualify(ctx, from)
	})
}

func (a *app) logos(ctx context.Context, fresh bool) error {
	r := a.runner()
	if fresh {
		if err := r.Reset(ctx, pipeline.StageLogos); err != nil {
			return err
		}
	}
	return a.stage(ctx, "Crest resolution", r.ResolveLogos)
}

// runStage handles config loading, wiring, and context cancellation.
func runStage(fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer a.store.Close()

	return fn(ctx, a)
}
