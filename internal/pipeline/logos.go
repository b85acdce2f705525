package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/store"
)

// TeamLogo is the resolved crest of one team.
type TeamLogo struct {
	Key  string `json:"key"`
	Team string `json:"team"`
	URL  string `json:"url"`
}

func teamKey(rec career.Record) string {
	if rec.TeamRef != "" {
		return rec.TeamRef
	}
	return rec.Team
}

// ResolveLogos resolves a crest for every distinct team in the qualified
// players' careers, saves them as StageLogos, and saves the players again
// as StageDetailed with LogoURL and DisplayTeam set on every record.
// Players whose infobox has no national-team section take their
// internationals from StageMemberships when that stage exists.
func (r *Runner) ResolveLogos(ctx context.Context) (Result, error) {
	var players []career.Player
	if err := r.deps.Store.Load(ctx, StageQualified, &players); err != nil {
		return Result{}, fmt.Errorf("load qualified: %w", err)
	}
	if err := r.fillInternationals(ctx, players); err != nil {
		return Result{}, err
	}

	seen := make(map[string]bool)
	var teams []career.Record
	collect := func(records []career.Record) {
		for _, rec := range records {
			k := teamKey(rec)
			if k == "" || rec.Aggregate() || seen[k] {
				continue
			}
			seen[k] = true
			teams = append(teams, rec)
		}
	}
	for _, p := range players {
		collect(p.Clubs)
		collect(p.Internationals)
	}
	r.logger.Info("Resolving crests", "players", len(players), "teams", len(teams))

	logos, result, err := resumable(ctx, r, StageLogos, teams, teamKey,
		func(ctx context.Context, rec career.Record) (TeamLogo, bool, error) {
			url := r.deps.Crests.ResolveTeam(ctx, rec)
			if ctx.Err() != nil {
				return TeamLogo{}, false, ctx.Err()
			}
			return TeamLogo{Key: teamKey(rec), Team: rec.Team, URL: url}, true, nil
		})
	if err != nil {
		return result, err
	}
	if err := r.deps.Store.Save(ctx, StageLogos, logos); err != nil {
		return result, fmt.Errorf("save logos: %w", err)
	}

	byKey := make(map[string]string, len(logos))
	for _, l := range logos {
		byKey[l.Key] = l.URL
	}
	detailed := make([]career.Player, 0, len(players))
	for _, p := range players {
		p.Clubs = detail(p.Clubs, byKey)
		p.Internationals = detail(p.Internationals, byKey)
		detailed = append(detailed, p)
	}
	if err := r.deps.Store.Save(ctx, StageDetailed, detailed); err != nil {
		return result, fmt.Errorf("save detailed: %w", err)
	}
	return result, nil
}

func detail(records []career.Record, byKey map[string]string) []career.Record {
	out := make([]career.Record, len(records))
	for i, rec := range records {
		if url, ok := byKey[teamKey(rec)]; ok {
			rec.LogoURL = url
		}
		if !rec.Aggregate() {
			rec.DisplayTeam = career.DisplayTeamName(rec.Team)
		}
		out[i] = rec
	}
	return out
}

// fillInternationals copies knowledge-base internationals onto players
// whose own international section is empty.
func (r *Runner) fillInternationals(ctx context.Context, players []career.Player) error {
	var kb []career.Player
	err := r.deps.Store.Load(ctx, StageMemberships, &kb)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load memberships: %w", err)
	}
	byID := make(map[string]career.Player, len(kb))
	for _, p := range kb {
		byID[p.ID] = p
	}
	filled := 0
	for i, p := range players {
		if len(p.Internationals) > 0 {
			continue
		}
		if m, ok := byID[p.ID]; ok && len(m.Internationals) > 0 {
			players[i].Internationals = m.Internationals
			filled++
		}
	}
	if filled > 0 {
		r.logger.Info("Internationals taken from memberships", "players", filled)
	}
	return nil
}

// DownloadLogos stores every resolved crest locally. Teams already on
// disk and crests that are not remote images are skipped.
func (r *Runner) DownloadLogos(ctx context.Context) (Result, error) {
	var logos []TeamLogo
	if err := r.deps.Store.Load(ctx, StageLogos, &logos); err != nil {
		return Result{}, fmt.Errorf("load logos: %w", err)
	}

	var result Result
	for i, l := range logos {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++
		path, skipped, err := r.deps.CrestStore.Download(ctx, l.Team, l.URL)
		if err != nil {
			result.AddErrorf("%s: %v", l.Team, err)
			r.logger.Error("crest download failed", "team", l.Team, "url", l.URL, "error", err)
			continue
		}
		if skipped {
			result.Resumed++
		} else {
			result.Kept++
			r.logger.Debug("Crest saved", "team", l.Team, "path", path)
		}
		if (i+1)%r.opts.ProgressEvery == 0 {
			r.logger.Info("Stage progress", "stage", "download", "position", i+1, "total", len(logos))
		}
	}
	return result, nil
}
