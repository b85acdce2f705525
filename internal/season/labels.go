package season

import (
	"fmt"
	"strconv"
)

// DefaultHorizon is the exclusive last season-start year assumed for
// careers that are still open ("2019–").
const DefaultHorizon = 2025

// Label identifies one season of a competition, e.g. "2012–13". The 1999
// season is written "1999-2000"; standings page titles key on that exact
// string, so it must not be normalized.
type Label string

// LabelFor formats the label of the season starting in year y.
func LabelFor(y int) Label {
	if y == 1999 {
		return "1999-2000"
	}
	return Label(fmt.Sprintf("%d–%02d", y, (y+1)%100))
}

// StartYear returns the season-start year encoded in the first four
// characters of the label.
func (l Label) StartYear() (int, bool) {
	if len(l) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(string(l[:4]))
	if err != nil {
		return 0, false
	}
	return y, true
}

func (l Label) String() string { return string(l) }

// Expand lists the season labels covered by a career period using
// DefaultHorizon for open periods.
func Expand(text string) []Label {
	return ExpandUntil(text, DefaultHorizon)
}

// ExpandUntil lists the season labels covered by a career period.
//
// A single year yields one season. A closed range yields one season per
// start year from start to end-1: the final year of "2010–2013" is the end
// of the 2012–13 season. An open range runs up to horizon (exclusive).
// Unparseable and descending periods yield nothing.
func ExpandUntil(text string, horizon int) []Label {
	iv, ok := Parse(text)
	if !ok || !iv.Valid() {
		return nil
	}

	var labels []Label
	switch {
	case iv.Open():
		for y := iv.Start; y < horizon; y++ {
			labels = append(labels, LabelFor(y))
		}
	case *iv.End == iv.Start:
		labels = append(labels, LabelFor(iv.Start))
	default:
		for y := iv.Start; y < *iv.End; y++ {
			labels = append(labels, LabelFor(y))
		}
	}
	return labels
}

// CompetitionKey is one of the five tracked top divisions.
type CompetitionKey string

const (
	Bundesliga CompetitionKey = "Bundesliga"
	SerieA     CompetitionKey = "Serie_A"
	LaLiga     CompetitionKey = "La_Liga"
	Premier    CompetitionKey = "Premier"
	Ligue      CompetitionKey = "Ligue"
)

// Competitions is the fixed scan order used by membership lookups.
var Competitions = []CompetitionKey{Bundesliga, SerieA, LaLiga, Premier, Ligue}

// CompetitionName returns the historical name of the competition for the
// season the label identifies. Unknown keys yield "".
func CompetitionName(label Label, key CompetitionKey) string {
	start, _ := label.StartYear()
	switch key {
	case Bundesliga, SerieA, LaLiga:
		return string(key)
	case Ligue:
		if start >= 2002 {
			return "Ligue_1"
		}
		return "French_Division_1"
	case Premier:
		switch {
		case start >= 2007:
			return "Premier_League"
		case start >= 1992:
			return "FA_Premier_League"
		default:
			return "Football_League_First_Division"
		}
	}
	return ""
}

// StandingsTitle is the page title of a competition season, e.g.
// "2012–13_Serie_A".
func StandingsTitle(label Label, key CompetitionKey) string {
	name := CompetitionName(label, key)
	if name == "" {
		return ""
	}
	return string(label) + "_" + name
}
