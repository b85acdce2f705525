// Package pipeline runs the staged batch that builds the quiz dataset.
//
// Stages read the previous stage from the store and write their own:
//
//	roster -> filtered -> qualified -> logos -> detailed
//	                           \-> memberships
//
// Long stages checkpoint after every entity under "<stage>.progress", so an
// interrupted run resumes where it stopped. Entities are processed one at a
// time with a pause between them; a failure is recorded against its entity
// and never aborts the stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/qualify"
	"github.com/albapepper/scoracle-quiz/internal/store"
	"github.com/albapepper/scoracle-quiz/internal/wiki"
	"github.com/albapepper/scoracle-quiz/internal/wikidata"
)

// Stage names.
const (
	StageRoster      = "roster"
	StageFiltered    = "filtered"
	StageQualified   = "qualified"
	StageMemberships = "memberships"
	StageLogos       = "logos"
	StageDetailed    = "detailed"
)

// DefaultCategories are the player categories of the five tracked leagues.
var DefaultCategories = []string{
	"Category:Serie_A_players",
	"Category:Premier_League_players",
	"Category:La_Liga_players",
	"Category:Bundesliga_players",
	"Category:Ligue_1_players",
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Pages fetches player pages and category listings.
type Pages interface {
	ParsePageHTML(ctx context.Context, pageID int) (string, error)
	ParseTitleHTML(ctx context.Context, title string) (string, error)
	CategoryMembers(ctx context.Context, category string) ([]wiki.Member, error)
}

// KnowledgeBase runs SPARQL selects.
type KnowledgeBase interface {
	Query(ctx context.Context, query string) ([]wikidata.Row, error)
}

// Entities maps knowledge-base ids to page titles.
type Entities interface {
	EntityTitle(ctx context.Context, qid string) (string, error)
}

// Qualifier decides whether a parsed career qualifies.
type Qualifier interface {
	Qualifies(ctx context.Context, c career.Career) qualify.Decision
}

// Crests resolves team crest URLs.
type Crests interface {
	ResolveTeam(ctx context.Context, rec career.Record) string
}

// CrestStore saves crest images locally.
type CrestStore interface {
	Download(ctx context.Context, team, imageURL string) (string, bool, error)
}

// Deps holds the collaborators; stages only require the ones they use.
type Deps struct {
	Store      store.Store
	Pages      Pages
	KB         KnowledgeBase
	Entities   Entities
	Qualifier  Qualifier
	Crests     Crests
	CrestStore CrestStore
}

// Options tunes the stages. Zero values fall back to defaults.
type Options struct {
	Categories      []string
	SinceYear       int           // pre-filter threshold, default 2010
	RecentYear      int           // knowledge-base roster recency, default 2022
	Horizon         int           // open-period end year, default 2025
	PlayerDelay     time.Duration // pause between entities
	MembershipBatch int           // QIDs per membership query, default 50
	ProgressEvery   int           // progress log interval, default 25
}

// Runner executes stages against Deps.
type Runner struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New creates a Runner.
func New(deps Deps, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Categories) == 0 {
		opts.Categories = DefaultCategories
	}
	if opts.SinceYear <= 0 {
		opts.SinceYear = 2010
	}
	if opts.RecentYear <= 0 {
		opts.RecentYear = 2022
	}
	if opts.Horizon <= 0 {
		opts.Horizon = 2025
	}
	if opts.MembershipBatch <= 0 {
		opts.MembershipBatch = 50
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 25
	}
	return &Runner{deps: deps, opts: opts, logger: logger}
}

// ---------------------------------------------------------------------------
// Checkpoints
// ---------------------------------------------------------------------------

// checkpoint is the persisted state of a resumable stage: the keys already
// handled and the output gathered so far.
type checkpoint[T any] struct {
	Done  map[string]bool `json:"done"`
	Items []T             `json:"items"`
}

func progressStage(stage string) string { return stage + ".progress" }

func (r *Runner) loadCheckpoint(ctx context.Context, stage string, cp any) error {
	err := r.deps.Store.Load(ctx, progressStage(stage), cp)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pageHTML fetches a roster entry's page by id, by the entity's sitelink
// title, or by its label, in that order.
func (r *Runner) pageHTML(ctx context.Context, e career.RosterEntry) (string, error) {
	if e.PageID > 0 {
		return r.deps.Pages.ParsePageHTML(ctx, e.PageID)
	}
	if e.QID != "" && r.deps.Entities != nil {
		title, err := r.deps.Entities.EntityTitle(ctx, e.QID)
		if err == nil {
			return r.deps.Pages.ParseTitleHTML(ctx, title)
		}
		r.logger.Warn("no sitelink, falling back to label", "qid", e.QID, "title", e.Title, "error", err)
	}
	if e.Title != "" {
		return r.deps.Pages.ParseTitleHTML(ctx, e.Title)
	}
	return "", fmt.Errorf("roster entry %q has neither page id nor title", e.Key())
}
