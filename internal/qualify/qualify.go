// Package qualify decides whether a player belongs in the quiz dataset.
//
// A player qualifies when both hold:
//   - club: at least MinSeasons seasons confirmed in a top-five league, or a
//     confirmed season in a spell starting in or after RecentYear
//   - international: at least one senior national-team record with
//     appearances
package qualify

import (
	"context"
	"log/slog"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/season"
)

// SeasonChecker confirms a club's top-five participation in one season.
type SeasonChecker interface {
	TeamPlayedInSeason(ctx context.Context, team string, label season.Label) bool
}

// Options tunes the thresholds. Zero values fall back to defaults.
type Options struct {
	MinSeasons int // default 5
	RecentYear int // default 2022
	Horizon    int // exclusive end year of open periods, default season.DefaultHorizon
}

// Decision is the outcome of one qualification with the evidence behind it.
type Decision struct {
	Qualified           bool `json:"qualified"`
	SeniorInternational bool `json:"senior_international"`
	Seasons             int  `json:"seasons"`
	Recent              bool `json:"recent"`
}

// ClubQualified reports whether the club condition holds.
func (d Decision) ClubQualified(minSeasons int) bool {
	return d.Seasons >= minSeasons || d.Recent
}

// Engine evaluates players against a SeasonChecker.
type Engine struct {
	checker SeasonChecker
	opts    Options
	logger  *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(checker SeasonChecker, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MinSeasons <= 0 {
		opts.MinSeasons = 5
	}
	if opts.RecentYear <= 0 {
		opts.RecentYear = 2022
	}
	if opts.Horizon <= 0 {
		opts.Horizon = season.DefaultHorizon
	}
	return &Engine{checker: checker, opts: opts, logger: logger}
}

// Qualifies evaluates a parsed career. The international condition is
// checked first since it needs no lookups; when it fails no season is
// checked. The club scan stops as soon as the club condition holds, so
// Seasons is a lower bound for qualified players.
func (e *Engine) Qualifies(ctx context.Context, c career.Career) Decision {
	var d Decision
	d.SeniorInternational = HasSeniorNationalAppearance(c.Internationals)
	if !d.SeniorInternational {
		return d
	}

	for _, rec := range c.Clubs {
		if rec.Aggregate() {
			continue
		}
		iv, ok := season.Parse(rec.Period)
		if !ok {
			continue
		}
		for _, label := range season.ExpandUntil(rec.Period, e.opts.Horizon) {
			if ctx.Err() != nil {
				return d
			}
			if !e.checker.TeamPlayedInSeason(ctx, rec.Team, label) {
				continue
			}
			d.Seasons++
			if iv.Start >= e.opts.RecentYear {
				d.Recent = true
			}
			if d.ClubQualified(e.opts.MinSeasons) {
				d.Qualified = true
				return d
			}
		}
	}
	e.logger.Debug("club condition not met", "seasons", d.Seasons)
	return d
}

// HasSeniorNationalAppearance reports whether any record is a senior
// national team with at least one appearance. Missing appearances count as
// zero.
func HasSeniorNationalAppearance(records []career.Record) bool {
	for _, r := range records {
		if r.Aggregate() || career.IsYouthTeam(r.Team) {
			continue
		}
		if r.AppearanceCount() > 0 {
			return true
		}
	}
	return false
}

// SeniorOnly drops youth national-team records.
func SeniorOnly(records []career.Record) []career.Record {
	out := make([]career.Record, 0, len(records))
	for _, r := range records {
		if !career.IsYouthTeam(r.Team) {
			out = append(out, r)
		}
	}
	return out
}

// PlayedSince reports whether any club spell starts in or after year. It is
// the cheap pre-filter run before full qualification.
func PlayedSince(clubs []career.Record, year int) bool {
	for _, r := range clubs {
		if y, ok := season.FirstYear(r.Period); ok && y >= year {
			return true
		}
	}
	return false
}
