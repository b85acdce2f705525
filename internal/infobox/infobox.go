// Package infobox extracts the club and national-team career tables from the
// infobox of a player's page.
//
// The infobox is a flat list of rows. Header rows ("Senior career*",
// "International career‡", "Youth career", ...) open a section and data rows
// belong to the last header seen. Parsing is best effort: rows that don't
// look like career rows are skipped, never fatal.
package infobox

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/scoracle-quiz/internal/career"
)

type section int

const (
	sectionNone section = iota
	sectionSenior
	sectionInternational
)

const loanArrow = "→"

var (
	loanMarker = regexp.MustCompile(`(?i)\(\s*(?:on\s+)?loan\s*\)`)
	firstCount = regexp.MustCompile(`\d+`)
)

// Parse reads an HTML document or fragment and parses its infobox.
func Parse(r io.Reader) (career.Career, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return career.Career{}, fmt.Errorf("parse html: %w", err)
	}
	return ParseDocument(doc), nil
}

// ParseHTML is Parse over a string.
func ParseHTML(html string) (career.Career, error) {
	return Parse(strings.NewReader(html))
}

// ParseDocument walks the rows of every infobox table in document order.
func ParseDocument(doc *goquery.Document) career.Career {
	out := career.Career{
		Clubs:          []career.Record{},
		Internationals: []career.Record{},
	}
	current := sectionNone

	doc.Find("table.infobox tr").Each(func(_ int, tr *goquery.Selection) {
		if header := tr.Find("th.infobox-header"); header.Length() > 0 {
			current = sectionFor(header.Text())
			return
		}
		if current == sectionNone {
			return
		}

		kind := career.Club
		if current == sectionInternational {
			kind = career.International
		}
		rec, ok := parseRow(tr, kind)
		if !ok {
			return
		}
		if kind == career.Club {
			out.Clubs = append(out.Clubs, rec)
		} else {
			out.Internationals = append(out.Internationals, rec)
		}
	})
	return out
}

func sectionFor(headerText string) section {
	text := strings.TrimSpace(headerText)
	switch {
	case strings.Contains(text, "Senior career"):
		return sectionSenior
	case strings.Contains(text, "International career"):
		return sectionInternational
	default:
		return sectionNone
	}
}

func parseRow(tr *goquery.Selection, kind career.Kind) (career.Record, bool) {
	label := tr.Find("th.infobox-label")
	cells := tr.Find("td")
	if label.Length() == 0 || cells.Length() < 3 {
		return career.Record{}, false
	}

	period := cleanText(label.First().Text())
	// column captions row: "Years | Team | Apps | (Gls)"
	if period == "" || strings.EqualFold(period, "years") {
		return career.Record{}, false
	}

	teamCell := cells.Eq(0)
	rawTeam := cleanText(teamCell.Text())

	rec := career.Record{
		Period:      period,
		Kind:        kind,
		Appearances: parseCount(cells.Eq(1).Text()),
		Goals:       parseCount(cells.Eq(2).Text()),
	}
	// redlinks (class "new") point at pages that do not exist
	if href, ok := teamCell.Find("a[href]").Not(".new").First().Attr("href"); ok {
		rec.TeamRef = href
	}

	rec.OnLoan = strings.Contains(rawTeam, loanArrow) || strings.Contains(strings.ToLower(rawTeam), "loan")
	team := strings.ReplaceAll(rawTeam, loanArrow, "")
	team = loanMarker.ReplaceAllString(team, "")
	rec.Team = cleanText(team)

	return rec, true
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseCount reads the first run of digits ("(45)" is 45). Blank or
// non-numeric cells are absent rather than zero.
func parseCount(text string) *int {
	m := firstCount.FindString(text)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}
