package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-quiz/internal/season"
	"github.com/albapepper/scoracle-quiz/internal/wiki"
)

const serieATable = `<html><body>
<table class="wikitable">
<tr><th>Pos</th><th>Team</th><th>Pld</th></tr>
<tr><td>1</td><td><a href="/wiki/Juventus_FC">Juventus</a></td><td>38</td></tr>
<tr><td>2</td><td><a href="/wiki/SSC_Napoli">Napoli</a></td><td>38</td></tr>
<tr><td>3</td><th><a href="/wiki/AS_Roma">
  Roma
</a></th><td>38</td></tr>
<tr><td>4</td><td>Unlinked FC</td><td>38</td></tr>
</table>
<table class="infobox"><tr><td><a href="/wiki/Not_A_Team">Ignored</a></td></tr></table>
</body></html>`

type fakeFetcher struct {
	pages   map[string]string
	calls   map[string]int
	fail    map[string]bool
	missing map[string]bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:   map[string]string{},
		calls:   map[string]int{},
		fail:    map[string]bool{},
		missing: map[string]bool{},
	}
}

func (f *fakeFetcher) PageHTML(_ context.Context, title string) (string, error) {
	f.calls[title]++
	if f.fail[title] {
		return "", errors.New("boom")
	}
	if f.missing[title] {
		return "", fmt.Errorf("page %q: %w", title, wiki.ErrNotFound)
	}
	html, ok := f.pages[title]
	if !ok {
		return "", errors.New("not found")
	}
	return html, nil
}

func TestExtractTeamNames(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(serieATable))
	require.NoError(t, err)
	require.Equal(t, []string{"Juventus", "Napoli", "Roma"}, ExtractTeamNames(doc))
}

func TestTeamPlayedInSeason(t *testing.T) {
	f := newFakeFetcher()
	f.pages["2015–16_Serie_A"] = serieATable
	r, err := NewResolver(f, 0, nil)
	require.NoError(t, err)
	ctx := context.Background()

	key, ok := r.Competition(ctx, "Juventus F.C.", "2015–16")
	require.True(t, ok)
	require.Equal(t, season.SerieA, key)

	key, ok = r.Competition(ctx, "  juventus ", "2015–16")
	require.True(t, ok)
	require.Equal(t, season.SerieA, key)

	// "SSC Napoli" contains "napoli"
	require.True(t, r.TeamPlayedInSeason(ctx, "SSC Napoli", "2015–16"))
	require.False(t, r.TeamPlayedInSeason(ctx, "Lazio", "2015–16"))
	require.False(t, r.TeamPlayedInSeason(ctx, "   ", "2015–16"))

	// Bundesliga is scanned first and fails; the standings page is memoized.
	require.Equal(t, 1, f.calls["2015–16_Serie_A"])
	require.Equal(t, 4, f.calls["2015–16_Bundesliga"])
}

func TestFailuresAreNotMemoized(t *testing.T) {
	f := newFakeFetcher()
	f.fail["2012–13_Serie_A"] = true
	r, err := NewResolver(f, 8, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.False(t, r.TeamPlayedInSeason(ctx, "Juventus", "2012–13"))
	require.Equal(t, 1, f.calls["2012–13_Serie_A"])

	f.fail["2012–13_Serie_A"] = false
	f.pages["2012–13_Serie_A"] = serieATable
	require.True(t, r.TeamPlayedInSeason(ctx, "Juventus", "2012–13"))
	require.Equal(t, 2, f.calls["2012–13_Serie_A"])
}

func TestMissingPagesAreMemoized(t *testing.T) {
	f := newFakeFetcher()
	f.missing["2015–16_Bundesliga"] = true
	f.pages["2015–16_Serie_A"] = serieATable
	r, err := NewResolver(f, 8, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.True(t, r.TeamPlayedInSeason(ctx, "Juventus", "2015–16"))
	require.True(t, r.TeamPlayedInSeason(ctx, "Napoli", "2015–16"))
	require.Equal(t, 1, f.calls["2015–16_Bundesliga"])

	// transient failures are still retried
	require.False(t, r.TeamPlayedInSeason(ctx, "Juventus", "2016–17"))
	require.False(t, r.TeamPlayedInSeason(ctx, "Juventus", "2016–17"))
	require.Equal(t, 2, f.calls["2016–17_Bundesliga"])
}

func TestCanceledContextStopsScan(t *testing.T) {
	f := newFakeFetcher()
	r, err := NewResolver(f, 8, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.False(t, r.TeamPlayedInSeason(ctx, "Juventus", "2015–16"))
	require.Empty(t, f.calls)
}

func TestMatchesIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Bayern Munich", "FC Bayern Munich"},
		{"Inter Milan", "inter\tmilan"},
		{"Real Madrid", "Real  Madrid CF"},
		{"Lazio", "Napoli"},
		{"", "Napoli"},
	}
	for _, p := range pairs {
		require.Equal(t, Matches(p[0], p[1]), Matches(p[1], p[0]), p)
	}
	require.True(t, Matches("Bayern Munich", "FC Bayern Munich"))
	require.True(t, Matches("Inter Milan", "inter\tmilan"))
	require.False(t, Matches("Lazio", "Napoli"))
	require.False(t, Matches("", "Napoli"))
	require.Equal(t, "realmadridcf", Normalize(" Real Madrid\nCF "))
}
