package career

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsYouthTeam(t *testing.T) {
	youth := []string{"Italy U21", "Spain under-19", "France U-17", "England U 20", "Brazil Under-23", "italy u21"}
	senior := []string{"Italy", "Uruguay", "United States", "Bosnia and Herzegovina", "Ukraine"}

	for _, team := range youth {
		require.True(t, IsYouthTeam(team), team)
	}
	for _, team := range senior {
		require.False(t, IsYouthTeam(team), team)
	}
}

func TestRecordAggregate(t *testing.T) {
	require.True(t, Record{Period: "Total", Team: ""}.Aggregate())
	require.True(t, Record{Period: "2010–2020", Team: "Total"}.Aggregate())
	require.True(t, Record{Period: "2010–2020", Team: "  "}.Aggregate())
	require.False(t, Record{Period: "2010–2020", Team: "Juventus"}.Aggregate())
}

func TestRosterEntryKey(t *testing.T) {
	require.Equal(t, "Q1", RosterEntry{PageID: 12, QID: "Q1"}.Key())
	require.Equal(t, "12", RosterEntry{PageID: 12, Title: "X"}.Key())
	require.Equal(t, "X", RosterEntry{Title: "X"}.Key())
}

func TestDisplayTeamName(t *testing.T) {
	testCases := map[string]string{
		"Italy national under-21 football team":             "Italy under-21",
		"Spain national under-19 association football team": "Spain under-19",
		"Italy national football team":                      "Italy",
		"Brazil men's national football team":               "Brazil",
		"Germany national association football team":        "Germany",
		"Juventus FC": "Juventus FC",
	}
	for in, expected := range testCases {
		require.Equal(t, expected, DisplayTeamName(in), in)
	}
}

func TestSeniorTeamTitle(t *testing.T) {
	title, ok := SeniorTeamTitle("Italy national under-21 football team")
	require.True(t, ok)
	require.Equal(t, "Italy national football team", title)

	title, ok = SeniorTeamTitle("France U21")
	require.True(t, ok)
	require.Equal(t, "France national football team", title)

	_, ok = SeniorTeamTitle("Italy national football team")
	require.False(t, ok)
}

func TestReserveParent(t *testing.T) {
	parent, ok := ReserveParent("Real Madrid B")
	require.True(t, ok)
	require.Equal(t, "Real Madrid", parent)

	parent, ok = ReserveParent("Barcelona C.")
	require.True(t, ok)
	require.Equal(t, "Barcelona", parent)

	_, ok = ReserveParent("Bayern Munich")
	require.False(t, ok)
}
