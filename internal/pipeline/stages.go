package pipeline

import (
	"context"
	"fmt"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/infobox"
	"github.com/albapepper/scoracle-quiz/internal/qualify"
	"github.com/albapepper/scoracle-quiz/internal/wikidata"
)

// resumable runs fn over inputs whose key the stage's checkpoint does not
// hold yet, saving the checkpoint after each one. Failed inputs stay
// unchecked so the next run retries them. It returns every kept output,
// including those gathered by earlier runs.
func resumable[In, Out any](
	ctx context.Context,
	r *Runner,
	stage string,
	inputs []In,
	key func(In) string,
	fn func(context.Context, In) (Out, bool, error),
) ([]Out, Result, error) {
	var result Result
	cp := checkpoint[Out]{Done: map[string]bool{}, Items: []Out{}}
	if err := r.loadCheckpoint(ctx, stage, &cp); err != nil {
		return nil, result, fmt.Errorf("load %s checkpoint: %w", stage, err)
	}
	if cp.Done == nil {
		cp.Done = map[string]bool{}
	}
	if cp.Items == nil {
		cp.Items = []Out{}
	}
	if len(cp.Done) > 0 {
		r.logger.Info("Resuming from checkpoint", "stage", stage, "done", len(cp.Done), "kept", len(cp.Items))
	}

	first := true
	for i, in := range inputs {
		k := key(in)
		if cp.Done[k] {
			result.Resumed++
			continue
		}
		if !first {
			if err := pause(ctx, r.opts.PlayerDelay); err != nil {
				return cp.Items, result, err
			}
		}
		first = false

		out, keep, err := fn(ctx, in)
		result.Processed++
		if err != nil {
			if ctx.Err() != nil {
				return cp.Items, result, ctx.Err()
			}
			result.AddErrorf("%s: %v", k, err)
			r.logger.Error("entity failed", "stage", stage, "key", k, "error", err)
			continue
		}

		cp.Done[k] = true
		if keep {
			cp.Items = append(cp.Items, out)
		}
		if err := r.deps.Store.Save(ctx, progressStage(stage), cp); err != nil {
			return cp.Items, result, fmt.Errorf("save %s checkpoint: %w", stage, err)
		}
		if (i+1)%r.opts.ProgressEvery == 0 {
			r.logger.Info("Stage progress", "stage", stage, "position", i+1, "total", len(inputs), "kept", len(cp.Items))
		}
	}
	result.Kept = len(cp.Items)
	return cp.Items, result, nil
}

// Reset discards a stage's checkpoint so the next run starts over.
func (r *Runner) Reset(ctx context.Context, stage string) error {
	empty := checkpoint[struct{}]{Done: map[string]bool{}, Items: []struct{}{}}
	if err := r.deps.Store.Save(ctx, progressStage(stage), empty); err != nil {
		return fmt.Errorf("reset %s: %w", stage, err)
	}
	return nil
}

// FilterRoster keeps roster entries with a club spell starting in or after
// SinceYear.
func (r *Runner) FilterRoster(ctx context.Context) (Result, error) {
	var roster []career.RosterEntry
	if err := r.deps.Store.Load(ctx, StageRoster, &roster); err != nil {
		return Result{}, fmt.Errorf("load roster: %w", err)
	}
	r.logger.Info("Filtering roster", "players", len(roster), "since", r.opts.SinceYear)

	kept, result, err := resumable(ctx, r, StageFiltered, roster, career.RosterEntry.Key,
		func(ctx context.Context, e career.RosterEntry) (career.RosterEntry, bool, error) {
			html, err := r.pageHTML(ctx, e)
			if err != nil {
				return e, false, err
			}
			c, err := infobox.ParseHTML(html)
			if err != nil {
				return e, false, err
			}
			return e, qualify.PlayedSince(c.Clubs, r.opts.SinceYear), nil
		})
	if err != nil {
		return result, err
	}
	if err := r.deps.Store.Save(ctx, StageFiltered, kept); err != nil {
		return result, fmt.Errorf("save filtered: %w", err)
	}
	return result, nil
}

// Qualify parses each candidate's career and keeps qualifying players.
// from names the input stage, normally StageFiltered.
func (r *Runner) Qualify(ctx context.Context, from string) (Result, error) {
	var candidates []career.RosterEntry
	if err := r.deps.Store.Load(ctx, from, &candidates); err != nil {
		return Result{}, fmt.Errorf("load %s: %w", from, err)
	}
	r.logger.Info("Qualifying players", "from", from, "players", len(candidates))

	players, result, err := resumable(ctx, r, StageQualified, candidates, career.RosterEntry.Key,
		func(ctx context.Context, e career.RosterEntry) (career.Player, bool, error) {
			html, err := r.pageHTML(ctx, e)
			if err != nil {
				return career.Player{}, false, err
			}
			c, err := infobox.ParseHTML(html)
			if err != nil {
				return career.Player{}, false, err
			}

			d := r.deps.Qualifier.Qualifies(ctx, c)
			if ctx.Err() != nil {
				return career.Player{}, false, ctx.Err()
			}
			r.logger.Info("Player evaluated",
				"player", e.Title, "key", e.Key(), "qualified", d.Qualified,
				"seasons", d.Seasons, "recent", d.Recent, "senior_international", d.SeniorInternational)

			return career.Player{
				ID:             e.Key(),
				PageID:         e.PageID,
				QID:            e.QID,
				Name:           e.Title,
				Clubs:          c.Clubs,
				Internationals: qualify.SeniorOnly(c.Internationals),
				Qualified:      d.Qualified,
			}, d.Qualified, nil
		})
	if err != nil {
		return result, err
	}
	if err := r.deps.Store.Save(ctx, StageQualified, players); err != nil {
		return result, fmt.Errorf("save qualified: %w", err)
	}
	return result, nil
}

// Memberships fetches the knowledge-base team memberships of qualified
// players that carry a QID, in batches, and saves one career per player
// that has any.
func (r *Runner) Memberships(ctx context.Context) (Result, error) {
	var players []career.Player
	if err := r.deps.Store.Load(ctx, StageQualified, &players); err != nil {
		return Result{}, fmt.Errorf("load qualified: %w", err)
	}

	var qids []string
	for _, p := range players {
		if p.QID != "" {
			qids = append(qids, p.QID)
		}
	}

	var result Result
	all := make([]wikidata.Membership, 0)
	for start := 0; start < len(qids); start += r.opts.MembershipBatch {
		end := min(start+r.opts.MembershipBatch, len(qids))
		if start > 0 {
			if err := pause(ctx, r.opts.PlayerDelay); err != nil {
				return result, err
			}
		}
		batch := qids[start:end]
		rows, err := r.deps.KB.Query(ctx, wikidata.MembershipQuery(batch))
		result.Processed += len(batch)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.AddErrorf("memberships %s..%s: %v", batch[0], batch[len(batch)-1], err)
			r.logger.Error("membership query failed", "from", batch[0], "count", len(batch), "error", err)
			continue
		}
		all = append(all, wikidata.Memberships(rows)...)
	}

	careers := wikidata.GroupByPlayer(all)
	out := make([]career.Player, 0, len(careers))
	for _, p := range players {
		c, ok := careers[p.QID]
		if p.QID == "" || !ok {
			continue
		}
		out = append(out, career.Player{
			ID:             p.ID,
			PageID:         p.PageID,
			QID:            p.QID,
			Name:           p.Name,
			Clubs:          c.Clubs,
			Internationals: qualify.SeniorOnly(c.Internationals),
			Qualified:      p.Qualified,
		})
	}

	result.Kept = len(out)
	if err := r.deps.Store.Save(ctx, StageMemberships, out); err != nil {
		return result, fmt.Errorf("save memberships: %w", err)
	}
	r.logger.Info("Memberships saved", "players", len(out), "memberships", len(all))
	return result, nil
}
