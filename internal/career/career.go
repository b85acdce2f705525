// Package career defines the canonical shapes that flow between pipeline
// stages: roster entries, career records and players. Parsers produce these,
// the qualification engine consumes them, stores persist them and the API
// serves them.
package career

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind tells club rows from national-team rows.
type Kind string

const (
	Club          Kind = "club"
	International Kind = "international"
)

// Record is one row of a player's career table.
type Record struct {
	Period      string `json:"period"` // as printed: "2010–2013", "2015", "2019–"
	Team        string `json:"team"`
	DisplayTeam string `json:"display_team,omitempty"`
	TeamRef     string `json:"team_ref,omitempty"` // "/wiki/Title" when the cell links to the team
	OnLoan      bool   `json:"on_loan"`
	Appearances *int   `json:"appearances,omitempty"`
	Goals       *int   `json:"goals,omitempty"`
	Kind        Kind   `json:"kind"`
	LogoURL     string `json:"logo_url,omitempty"`
}

// Aggregate reports whether the row is a "Total" line rather than a spell
// at a team. Aggregate rows never count toward qualification.
func (r Record) Aggregate() bool {
	team := strings.TrimSpace(r.Team)
	return team == "" ||
		strings.EqualFold(team, "total") ||
		strings.EqualFold(strings.TrimSpace(r.Period), "total")
}

// AppearanceCount returns the appearances, treating absent as zero.
func (r Record) AppearanceCount() int {
	if r.Appearances == nil {
		return 0
	}
	return *r.Appearances
}

// Career is the parsed career table of one player.
type Career struct {
	Clubs          []Record `json:"clubs"`
	Internationals []Record `json:"internationals"`
}

// Player is a qualified player as persisted and served.
type Player struct {
	ID             string   `json:"id"`
	PageID         int      `json:"page_id,omitempty"`
	QID            string   `json:"qid,omitempty"`
	Name           string   `json:"name"`
	Clubs          []Record `json:"clubs"`
	Internationals []Record `json:"internationals"`
	Qualified      bool     `json:"qualified"`
}

// Career returns the player's records as a Career value.
func (p Player) Career() Career {
	return Career{Clubs: p.Clubs, Internationals: p.Internationals}
}

// Records returns club rows followed by international rows.
func (p Player) Records() []Record {
	out := make([]Record, 0, len(p.Clubs)+len(p.Internationals))
	out = append(out, p.Clubs...)
	return append(out, p.Internationals...)
}

// RosterEntry is a candidate player before any filtering. Category roster
// entries carry a page id, knowledge-base entries carry a QID.
type RosterEntry struct {
	PageID int    `json:"pageid,omitempty"`
	Title  string `json:"title,omitempty"`
	QID    string `json:"qid,omitempty"`
}

// Key is the stable identifier used for checkpoints and API lookups.
func (e RosterEntry) Key() string {
	switch {
	case e.QID != "":
		return e.QID
	case e.PageID > 0:
		return strconv.Itoa(e.PageID)
	default:
		return e.Title
	}
}

var youthTeam = regexp.MustCompile(`(?i)\bu-?\s*\d+|under`)

// IsYouthTeam reports whether a national-team name denotes an age-limited
// squad ("Italy U21", "Spain under-19", "France U-17").
func IsYouthTeam(team string) bool {
	return youthTeam.MatchString(team)
}
