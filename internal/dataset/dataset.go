// Package dataset indexes the produced players for serving.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/albapepper/scoracle-quiz/internal/career"
	"github.com/albapepper/scoracle-quiz/internal/store"
)

// Stages tried by Load, most complete first.
var Stages = []string{"detailed", "qualified"}

// Summary is the list form of a player.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match is a search hit.
type Match struct {
	Summary
	Score float64 `json:"score"`
}

// Dataset is an immutable, indexed set of players.
type Dataset struct {
	stage   string
	players []career.Player
	byID    map[string]int
	folded  []string
}

// Load reads the first stage of Stages present in s.
func Load(ctx context.Context, s store.Store) (*Dataset, error) {
	for _, stage := range Stages {
		var players []career.Player
		err := s.Load(ctx, stage, &players)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", stage, err)
		}
		return New(stage, players), nil
	}
	return nil, fmt.Errorf("none of %s found: %w", strings.Join(Stages, ", "), store.ErrNotFound)
}

// New indexes players. Later duplicates of an id are dropped.
func New(stage string, players []career.Player) *Dataset {
	d := &Dataset{
		stage: stage,
		byID:  make(map[string]int, len(players)),
	}
	for _, p := range players {
		if _, dup := d.byID[p.ID]; dup || p.ID == "" {
			continue
		}
		d.byID[p.ID] = len(d.players)
		d.players = append(d.players, p)
		d.folded = append(d.folded, Fold(p.Name))
	}
	return d
}

// Stage names the stage the players came from.
func (d *Dataset) Stage() string { return d.stage }

// Len returns the number of players.
func (d *Dataset) Len() int { return len(d.players) }

// Summaries lists every player in stored order.
func (d *Dataset) Summaries() []Summary {
	out := make([]Summary, len(d.players))
	for i, p := range d.players {
		out[i] = Summary{ID: p.ID, Name: p.Name}
	}
	return out
}

// Player looks a player up by id.
func (d *Dataset) Player(id string) (career.Player, bool) {
	i, ok := d.byID[id]
	if !ok {
		return career.Player{}, false
	}
	return d.players[i], true
}

// Random picks a player using r.
func (d *Dataset) Random(r *rand.Rand) (career.Player, bool) {
	if len(d.players) == 0 {
		return career.Player{}, false
	}
	return d.players[r.IntN(len(d.players))], true
}

// Search returns players whose folded name contains the folded query,
// best Jaro-Winkler similarity first. limit <= 0 means no limit.
func (d *Dataset) Search(query string, limit int) []Match {
	q := Fold(query)
	if q == "" {
		return []Match{}
	}
	matches := make([]Match, 0)
	for i, name := range d.folded {
		if !strings.Contains(name, q) {
			continue
		}
		p := d.players[i]
		matches = append(matches, Match{
			Summary: Summary{ID: p.ID, Name: p.Name},
			Score:   matchr.JaroWinkler(q, name, false),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Fold lower-cases s, strips diacritics and collapses whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
