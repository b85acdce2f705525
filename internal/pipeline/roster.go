package pipeline

import (
	"context"
	"fmt"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/wikidata"
)

// BuildRoster lists every article in the league player categories and
// saves the de-duplicated roster. A failing category is recorded and
// skipped; the stage fails only when no category could be read.
func (r *Runner) BuildRoster(ctx context.Context) (Result, error) {
	var result Result
	seen := make(map[int]bool)
	roster := make([]career.RosterEntry, 0)
	failed := 0

	for i, category := range r.opts.Categories {
		if i > 0 {
			if err := pause(ctx, r.opts.PlayerDelay); err != nil {
				return result, err
			}
		}
		members, err := r.deps.Pages.CategoryMembers(ctx, category)
		if err != nil {
			failed++
			result.AddErrorf("%s: %v", category, err)
			r.logger.Error("category fetch failed", "category", category, "error", err)
			continue
		}
		added := 0
		for _, m := range members {
			result.Processed++
			if m.PageID == 0 || seen[m.PageID] {
				continue
			}
			seen[m.PageID] = true
			roster = append(roster, career.RosterEntry{PageID: m.PageID, Title: m.Title})
			added++
		}
		r.logger.Info("Category done", "category", category, "members", len(members), "new", added)
	}

	if failed == len(r.opts.Categories) {
		return result, fmt.Errorf("no category could be fetched")
	}
	result.Kept = len(roster)
	if err := r.deps.Store.Save(ctx, StageRoster, roster); err != nil {
		return result, fmt.Errorf("save roster: %w", err)
	}
	return result, nil
}

// BuildRosterFromKnowledgeBase selects candidates with a single SPARQL
// query and saves them as the roster.
func (r *Runner) BuildRosterFromKnowledgeBase(ctx context.Context) (Result, error) {
	var result Result
	query := wikidata.RosterQuery(r.opts.SinceYear, r.opts.RecentYear, r.opts.Horizon)
	rows, err := r.deps.KB.Query(ctx, query)
	if err != nil {
		return result, fmt.Errorf("roster query: %w", err)
	}

	roster := wikidata.RosterEntries(rows)
	result.Processed = len(rows)
	result.Kept = len(roster)
	if err := r.deps.Store.Save(ctx, StageRoster, roster); err != nil {
		return result, fmt.Errorf("save roster: %w", err)
	}
	r.logger.Info("Knowledge-base roster saved", "rows", len(rows), "players", len(roster))
	return result, nil
}
