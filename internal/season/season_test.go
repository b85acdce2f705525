package season

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestParse(t *testing.T) {
	testCases := []struct {
		in       string
		ok       bool
		expected Interval
	}{
		{in: "2013", ok: true, expected: Interval{Start: 2013, End: intp(2013), Duration: intp(1)}},
		{in: "2010-2013", ok: true, expected: Interval{Start: 2010, End: intp(2013), Duration: intp(4)}},
		{in: "2010–2013", ok: true, expected: Interval{Start: 2010, End: intp(2013), Duration: intp(4)}},
		{in: "  2010 – 2013 ", ok: true, expected: Interval{Start: 2010, End: intp(2013), Duration: intp(4)}},
		{in: "2010-", ok: true, expected: Interval{Start: 2010}},
		{in: "2019– ", ok: true, expected: Interval{Start: 2019}},
		{in: "abc", ok: false},
		{in: "", ok: false},
		{in: "Years", ok: false},
		{in: "2010–2013 (loan)", ok: false},
	}

	for _, test := range testCases {
		iv, ok := Parse(test.in)
		require.Equal(t, test.ok, ok, "input %q", test.in)
		if !ok {
			continue
		}
		if diff := cmp.Diff(test.expected, iv); diff != "" {
			t.Fatalf("input %q: %s", test.in, diff)
		}
	}
}

func TestParseDescendingRange(t *testing.T) {
	iv, ok := Parse("2015-2010")
	require.True(t, ok)
	require.False(t, iv.Valid())
	require.Equal(t, -4, *iv.Duration)
	require.Empty(t, Expand("2015-2010"))
}

func TestExpand(t *testing.T) {
	require.Equal(t, []Label{"2010–11", "2011–12", "2012–13"}, Expand("2010-2013"))
	require.Equal(t, []Label{"2017–18"}, Expand("2017"))
	require.Equal(t, []Label{"1998–99", "1999-2000", "2000–01"}, Expand("1998–2001"))
	require.Equal(t, []Label{"2022–23", "2023–24", "2024–25"}, Expand("2022–"))
	require.Empty(t, Expand("2026–"))
	require.Empty(t, Expand("garbage"))
	require.Len(t, ExpandUntil("2020-", 2030), 10)
}

func TestLabelFor(t *testing.T) {
	require.Equal(t, Label("1999-2000"), LabelFor(1999))
	require.Equal(t, Label("2012–13"), LabelFor(2012))
	require.Equal(t, Label("2009–10"), LabelFor(2009))
	require.Equal(t, Label("2000–01"), LabelFor(2000))

	y, ok := LabelFor(1999).StartYear()
	require.True(t, ok)
	require.Equal(t, 1999, y)
}

func TestCompetitionName(t *testing.T) {
	testCases := []struct {
		label    Label
		key      CompetitionKey
		expected string
	}{
		{"2007–08", Premier, "Premier_League"},
		{"2000–01", Premier, "FA_Premier_League"},
		{"1992–93", Premier, "FA_Premier_League"},
		{"1990–91", Premier, "Football_League_First_Division"},
		{"2002–03", Ligue, "Ligue_1"},
		{"2001–02", Ligue, "French_Division_1"},
		{"1999-2000", Ligue, "French_Division_1"},
		{"2012–13", Bundesliga, "Bundesliga"},
		{"2012–13", SerieA, "Serie_A"},
		{"2012–13", LaLiga, "La_Liga"},
		{"2012–13", CompetitionKey("Eredivisie"), ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CompetitionName(test.label, test.key), "%s %s", test.label, test.key)
	}

	require.Equal(t, "2012–13_Serie_A", StandingsTitle("2012–13", SerieA))
	require.Equal(t, "1999-2000_FA_Premier_League", StandingsTitle("1999-2000", Premier))
}

func TestFirstYear(t *testing.T) {
	y, ok := FirstYear("2008–2011")
	require.True(t, ok)
	require.Equal(t, 2008, y)

	_, ok = FirstYear("Years")
	require.False(t, ok)
}
