package wikidata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-quiz/internal/career"
)

// Top-five league entities: Serie A, Premier League, La Liga, Bundesliga,
// Ligue 1.
var topLeagues = []string{"Q15804", "Q9448", "Q324867", "Q82595", "Q13394"}

// Senior national team: instance of national association football team
// (Q6979593) whose competition class (P2094) is men's football (Q31930761).
const nationalTeamFilter = `?%[1]s wdt:P31 wd:Q6979593.
    ?%[1]s wdt:P2094 wd:Q31930761.`

// RosterQuery selects players capped by a senior national team who joined a
// top-five league club in or after sinceYear, keeping those with at least
// five summed membership years or a start after recentYear. Open memberships
// are measured up to horizonYear.
func RosterQuery(sinceYear, recentYear, horizonYear int) string {
	leagues := make([]string, len(topLeagues))
	for i, q := range topLeagues {
		leagues[i] = "wd:" + q
	}

	return fmt.Sprintf(`PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
SELECT ?player ?qid ?playerLabel (SUM(?duration) AS ?totalYears) (MAX(?start) AS ?latestStart)
WHERE {
  {
    SELECT DISTINCT ?player WHERE {
      ?player p:P54 ?msNat.
      ?msNat ps:P54 ?nat.
      %[1]s
    }
  }
  ?player p:P54 ?ms.
  ?ms ps:P54 ?club.
  ?club wdt:P118 ?league.
  FILTER(?league IN (%[2]s))
  ?ms pq:P580 ?start.
  FILTER(?start >= "%[3]d-01-01T00:00:00Z"^^xsd:dateTime)
  OPTIONAL { ?ms pq:P582 ?end. }
  BIND(COALESCE(?end, "%[5]d-01-01T00:00:00Z"^^xsd:dateTime) AS ?endBound)
  BIND((YEAR(?endBound) - YEAR(?start)) AS ?duration)
  SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
  BIND(STRAFTER(STR(?player), "entity/") AS ?qid)
}
GROUP BY ?player ?qid ?playerLabel
HAVING (SUM(?duration) >= 5 || MAX(?start) >= "%[4]d-01-01T00:00:00Z"^^xsd:dateTime)
ORDER BY ?playerLabel
`, fmt.Sprintf(nationalTeamFilter, "nat"), strings.Join(leagues, ", "), sinceYear, recentYear, horizonYear)
}

// RosterEntries maps roster query rows to roster entries, dropping rows
// without a QID and duplicate players.
func RosterEntries(rows []Row) []career.RosterEntry {
	seen := make(map[string]bool, len(rows))
	out := make([]career.RosterEntry, 0, len(rows))
	for _, row := range rows {
		qid := row["qid"]
		if qid == "" {
			qid, _ = QIDFromIRI(row["player"])
		}
		if qid == "" || seen[qid] {
			continue
		}
		seen[qid] = true
		out = append(out, career.RosterEntry{QID: qid, Title: row["playerLabel"]})
	}
	return out
}

// MembershipQuery selects every club and senior national-team membership of
// the given players with dates, appearances and goals.
func MembershipQuery(qids []string) string {
	values := make([]string, 0, len(qids))
	for _, q := range qids {
		values = append(values, "wd:"+q)
	}

	return fmt.Sprintf(`PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX wd: <http://www.wikidata.org/entity/>
SELECT ?player ?qid ?playerLabel ?team ?teamLabel ?membershipType ?start ?end ?appearances ?goals WHERE {
  VALUES ?player { %[1]s }
  {
    ?player p:P54 ?ms.
    ?ms ps:P54 ?team.
    FILTER NOT EXISTS {
      %[2]s
    }
    BIND("club" AS ?membershipType)
    ?ms pq:P580 ?start.
    OPTIONAL { ?ms pq:P582 ?end. }
    OPTIONAL { ?ms pq:P1350 ?appearances. }
    OPTIONAL { ?ms pq:P1351 ?goals. }
  }
  UNION
  {
    ?player p:P54 ?msNat.
    ?msNat ps:P54 ?team.
    %[2]s
    BIND("national" AS ?membershipType)
    ?msNat pq:P580 ?start.
    OPTIONAL { ?msNat pq:P582 ?end. }
    OPTIONAL { ?msNat pq:P1350 ?appearances. }
    OPTIONAL { ?msNat pq:P1351 ?goals. }
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
  BIND(STRAFTER(STR(?player), "entity/") AS ?qid)
}
ORDER BY ?playerLabel ?membershipType ?start
`, strings.Join(values, " "), fmt.Sprintf(nationalTeamFilter, "team"))
}

// Membership is one team spell of a player as recorded in the knowledge base.
type Membership struct {
	PlayerQID   string      `json:"player_qid"`
	PlayerName  string      `json:"player_name"`
	TeamQID     string      `json:"team_qid"`
	TeamName    string      `json:"team_name,omitempty"`
	Kind        career.Kind `json:"kind"`
	Start       string      `json:"start"`
	End         string      `json:"end,omitempty"`
	Appearances *int        `json:"appearances,omitempty"`
	Goals       *int        `json:"goals,omitempty"`
}

// Memberships maps membership query rows. Rows without a player or team are
// skipped.
func Memberships(rows []Row) []Membership {
	out := make([]Membership, 0, len(rows))
	for _, row := range rows {
		player, ok := QIDFromIRI(row["player"])
		if !ok {
			player = row["qid"]
		}
		team, _ := QIDFromIRI(row["team"])
		if player == "" || team == "" {
			continue
		}
		kind := career.Club
		if row["membershipType"] == "national" {
			kind = career.International
		}
		out = append(out, Membership{
			PlayerQID:   player,
			PlayerName:  row["playerLabel"],
			TeamQID:     team,
			TeamName:    row["teamLabel"],
			Kind:        kind,
			Start:       row["start"],
			End:         row["end"],
			Appearances: parseQuantity(row["appearances"]),
			Goals:       parseQuantity(row["goals"]),
		})
	}
	return out
}

// Record converts the membership into a career row whose period is built
// from the start and end years ("2015–2019", "2019–").
func (m Membership) Record() career.Record {
	period := yearOf(m.Start) + "–" + yearOf(m.End)
	if yearOf(m.Start) == yearOf(m.End) {
		period = yearOf(m.Start)
	}
	return career.Record{
		Period:      period,
		Team:        m.TeamName,
		TeamRef:     m.TeamQID,
		Appearances: m.Appearances,
		Goals:       m.Goals,
		Kind:        m.Kind,
	}
}

// GroupByPlayer collects memberships per player QID into a career, ordered
// by start date within each section.
func GroupByPlayer(memberships []Membership) map[string]career.Career {
	sorted := make([]Membership, len(memberships))
	copy(sorted, memberships)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make(map[string]career.Career)
	for _, m := range sorted {
		c := out[m.PlayerQID]
		if m.Kind == career.International {
			c.Internationals = append(c.Internationals, m.Record())
		} else {
			c.Clubs = append(c.Clubs, m.Record())
		}
		out[m.PlayerQID] = c
	}
	return out
}

func yearOf(dateTime string) string {
	if len(dateTime) < 4 {
		return ""
	}
	return dateTime[:4]
}

// parseQuantity reads a quantity literal ("45", "+45", "45.0").
func parseQuantity(s string) *int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}
