// Package membership decides whether a club took part in a top-five league
// in a given season by reading that season's standings pages.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/albapepper/scoracle-quiz/internal/season"
	"github.com/albapepper/scoracle-quiz/internal/wiki"
)

// DefaultCacheSize bounds the number of memoized standings pages.
const DefaultCacheSize = 2048

// Fetcher returns the HTML of the page with the given title.
type Fetcher interface {
	PageHTML(ctx context.Context, title string) (string, error)
}

// Resolver checks team participation against standings pages. Extractions
// and missing pages are memoized per page title; other failed fetches are
// retried on the next call.
type Resolver struct {
	fetcher Fetcher
	tables  *lru.Cache[string, []string]
	logger  *slog.Logger
}

// NewResolver creates a Resolver. cacheSize <= 0 uses DefaultCacheSize.
func NewResolver(fetcher Fetcher, cacheSize int, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	tables, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("standings cache: %w", err)
	}
	return &Resolver{fetcher: fetcher, tables: tables, logger: logger}, nil
}

// TeamPlayedInSeason reports whether team appears in the standings of any
// top-five competition for the season.
func (r *Resolver) TeamPlayedInSeason(ctx context.Context, team string, label season.Label) bool {
	_, ok := r.Competition(ctx, team, label)
	return ok
}

// Competition is TeamPlayedInSeason that also returns the first competition,
// in fixed scan order, whose standings list the team.
func (r *Resolver) Competition(ctx context.Context, team string, label season.Label) (season.CompetitionKey, bool) {
	if Normalize(team) == "" {
		return "", false
	}
	for _, key := range season.Competitions {
		if ctx.Err() != nil {
			return "", false
		}
		title := season.StandingsTitle(label, key)
		names, err := r.standings(ctx, title)
		if err != nil {
			r.logger.Warn("standings fetch failed", "page", title, "error", err)
			continue
		}
		for _, name := range names {
			if Matches(team, name) {
				return key, true
			}
		}
	}
	return "", false
}

func (r *Resolver) standings(ctx context.Context, title string) ([]string, error) {
	if names, ok := r.tables.Get(title); ok {
		return names, nil
	}
	html, err := r.fetcher.PageHTML(ctx, title)
	if errors.Is(err, wiki.ErrNotFound) {
		r.logger.Debug("no standings page", "page", title)
		r.tables.Add(title, []string{})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", title, err)
	}
	names := ExtractTeamNames(doc)
	r.tables.Add(title, names)
	return names, nil
}

// ExtractTeamNames lists the team names of every wikitable row: the text of
// the first link in the row's header cells, or in its data cells when the
// row has no header cells.
func ExtractTeamNames(doc *goquery.Document) []string {
	var names []string
	doc.Find("table.wikitable tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th")
		if cells.Length() == 0 {
			cells = row.Find("td")
		}
		if cells.Length() == 0 {
			return
		}
		anchor := cells.Find("a[href]").First()
		if anchor.Length() == 0 {
			return
		}
		if name := strings.Join(strings.Fields(anchor.Text()), " "); name != "" {
			names = append(names, name)
		}
	})
	return names
}

// Normalize lowercases s and removes all whitespace.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Matches reports whether either normalized name contains the other. Empty
// names never match.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
