// Package logo resolves team crest image URLs.
//
// Resolution tries, in order: the curated override table, the page's lead
// image, a scored scan of every image on the page, an optional external
// image search, and finally the DefaultLogo sentinel. Every step logs and
// falls through on failure; Resolve never returns an empty string.
package logo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/similarity"
	"github.com/albapepper/scoracle-quiz/internal/wiki"
	"github.com/albapepper/scoracle-quiz/internal/wikidata"
)

const (
	DefaultLogo = "default_logo.png"

	thumbSize           = 500
	titleWeight         = 4
	similarityBonus     = 5
	similarityThreshold = 0.9
	defaultCacheSize    = 4096
)

// Wiki is the subset of the wiki client used for image lookups.
type Wiki interface {
	PageImage(ctx context.Context, title string, thumbSize int) (string, error)
	PageImages(ctx context.Context, title string) ([]string, error)
	ImageURL(ctx context.Context, file string) (string, error)
}

// EntityResolver maps knowledge-base ids to page titles.
type EntityResolver interface {
	EntityTitle(ctx context.Context, qid string) (string, error)
}

// Searcher finds a crest through an external image search.
type Searcher interface {
	Search(ctx context.Context, team string) (string, error)
}

// Options configures a Resolver. Entities and Search are optional.
type Options struct {
	Tables    Tables
	Default   string
	Entities  EntityResolver
	Search    Searcher
	CacheSize int
	Logger    *slog.Logger
}

// Resolver resolves crests and memoizes non-default results per
// identifier.
type Resolver struct {
	wiki     Wiki
	tables   Tables
	fallback string
	entities EntityResolver
	search   Searcher
	memo     *lru.Cache[string, string]
	logger   *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(w Wiki, opts Options) (*Resolver, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Default == "" {
		opts.Default = DefaultLogo
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	memo, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("logo cache: %w", err)
	}
	return &Resolver{
		wiki:     w,
		tables:   opts.Tables.withDefaults(),
		fallback: opts.Default,
		entities: opts.Entities,
		search:   opts.Search,
		memo:     memo,
		logger:   opts.Logger,
	}, nil
}

// Default returns the sentinel returned when nothing resolves.
func (r *Resolver) Default() string { return r.fallback }

// IsDefault reports whether url is the sentinel.
func (r *Resolver) IsDefault(url string) bool { return url == r.fallback }

// Resolve returns the crest URL for a team identifier: a "/wiki/Title"
// reference, a knowledge-base IRI or QID, or a plain page title.
func (r *Resolver) Resolve(ctx context.Context, identifier string) string {
	return r.resolve(ctx, identifier, "")
}

// ResolveTeam resolves the crest of a career record's team, preferring the
// linked page and falling back to the display name. Youth national teams
// and reserve sides left unresolved borrow the crest of their senior team.
func (r *Resolver) ResolveTeam(ctx context.Context, rec career.Record) string {
	identifier := rec.TeamRef
	if identifier == "" {
		identifier = rec.Team
	}
	if strings.TrimSpace(identifier) == "" {
		return r.fallback
	}

	url := r.resolve(ctx, identifier, rec.Team)
	if !r.IsDefault(url) {
		return url
	}

	title := rec.Team
	if t, err := r.Title(ctx, identifier); err == nil {
		title = t
	}
	if senior, ok := career.SeniorTeamTitle(title); ok {
		r.logger.Debug("youth team, trying senior crest", "team", rec.Team, "senior", senior)
		return r.resolve(ctx, senior, "")
	}
	if parent, ok := career.ReserveParent(rec.Team); ok {
		r.logger.Debug("reserve team, trying parent crest", "team", rec.Team, "parent", parent)
		return r.resolve(ctx, parent, "")
	}
	return url
}

func (r *Resolver) resolve(ctx context.Context, identifier, searchName string) string {
	if url, ok := r.memo.Get(identifier); ok {
		return url
	}

	url := r.lookup(ctx, identifier, searchName)
	if url == "" {
		return r.fallback
	}
	r.memo.Add(identifier, url)
	return url
}

// lookup runs the resolution chain and returns "" when every step misses.
func (r *Resolver) lookup(ctx context.Context, identifier, searchName string) string {
	title, err := r.Title(ctx, identifier)
	if err != nil {
		r.logger.Warn("no page title for team", "team", identifier, "error", err)
	}

	if title != "" {
		if url, ok := r.tables.override(title); ok {
			r.logger.Debug("crest override", "title", title, "url", url)
			return url
		}
		if url := r.pageImage(ctx, title); url != "" {
			return url
		}
		if url := r.galleryImage(ctx, title); url != "" {
			return url
		}
	}

	if r.search != nil {
		query := searchName
		if query == "" {
			query = title
		}
		if query != "" {
			url, err := r.search.Search(ctx, query)
			if err != nil {
				r.logger.Warn("image search failed", "team", query, "error", err)
			} else if url != "" {
				return url
			}
		}
	}
	return ""
}

// Title maps an identifier to a page title.
func (r *Resolver) Title(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	switch {
	case identifier == "":
		return "", errors.New("empty team identifier")
	case strings.HasPrefix(identifier, "/wiki/"), strings.HasPrefix(identifier, "/w/index.php?"):
		return wiki.TitleFromRef(identifier), nil
	}
	if qid, ok := wikidata.QIDFromIRI(identifier); ok {
		if r.entities == nil {
			return "", fmt.Errorf("entity %s: no knowledge-base client", qid)
		}
		return r.entities.EntityTitle(ctx, qid)
	}
	return identifier, nil
}

func (r *Resolver) pageImage(ctx context.Context, title string) string {
	url, err := r.wiki.PageImage(ctx, title, thumbSize)
	if err != nil {
		r.logger.Warn("page image lookup failed", "title", title, "error", err)
		return ""
	}
	if url == "" {
		return ""
	}
	if r.tables.excluded(url) {
		r.logger.Debug("lead image excluded", "title", title, "url", url)
		return ""
	}
	return url
}

func (r *Resolver) galleryImage(ctx context.Context, title string) string {
	files, err := r.wiki.PageImages(ctx, title)
	if err != nil {
		r.logger.Warn("page images lookup failed", "title", title, "error", err)
		return ""
	}
	file, ok := r.BestCandidate(title, files)
	if !ok {
		return ""
	}
	url, err := r.wiki.ImageURL(ctx, strings.TrimPrefix(file, "File:"))
	if err != nil {
		r.logger.Warn("image url lookup failed", "file", file, "error", err)
		return ""
	}
	return url
}

// BestCandidate filters files to crest candidates and picks the highest
// scoring one. Ties keep the earlier file; when nothing scores, the first
// candidate is returned.
func (r *Resolver) BestCandidate(title string, files []string) (string, bool) {
	var candidates []string
	for _, f := range files {
		if r.tables.allowedExtension(f) && !r.tables.excluded(f) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	best, bestScore := "", 0
	for _, f := range candidates {
		if s := r.Score(title, f); s > bestScore {
			best, bestScore = f, s
		}
	}
	if best == "" {
		best = candidates[0]
	}
	return best, true
}

// Score sums the keyword weights found in a file name, the title weight
// when the file name contains the page title, and the similarity bonus.
func (r *Resolver) Score(title, file string) int {
	name := spaced(file)
	score := 0
	if t := spaced(title); t != "" && strings.Contains(name, t) {
		score += titleWeight
	}
	for _, kw := range r.tables.Keywords {
		if strings.Contains(name, spaced(kw.Term)) {
			score += kw.Weight
		}
	}
	if similarity.IsSimilarToTitle(title, file, similarityThreshold) {
		score += similarityBonus
	}
	return score
}

// spaced lowercases s and turns underscores into spaces, so file names and
// page titles compare in the same form.
func spaced(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeTitle folds diacritics, case and underscores.
func normalizeTitle(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(spaced(out))
}
