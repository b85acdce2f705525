package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("", ""))
	require.Equal(t, 1.0, Similarity("abc", "abc"))
	require.InDelta(t, 0.667, Similarity("abc", "abd"), 0.001)
	require.InDelta(t, 1-3.0/7.0, Similarity("kitten", "sitting"), 0.0001)
	require.Equal(t, 0.0, Similarity("abc", ""))
	require.Equal(t, 1.0, Similarity("ABC", "abc"))
}

func TestCleanFilename(t *testing.T) {
	require.Equal(t, "hellasveronafc", CleanFilename("Hellas_Verona_FC_logo.svg"))
	require.Equal(t, "realmadridcf", CleanFilename("Real_Madrid_CF.PNG"))
	require.Equal(t, "fiorentina", CleanFilename("Scudo-Fiorentina.jpeg"))
	require.Equal(t, "realbetis", CleanFilename("Escudo_Real_Betis.jpg"))
}

func TestCombinations(t *testing.T) {
	require.Equal(t,
		[]string{"a", "b", "ab", "c", "ac", "bc", "abc"},
		Combinations([]string{"a", "b", "c"}),
	)
	require.Empty(t, Combinations(nil))
	require.Len(t, Combinations(make([]string, 20)), (1<<MaxTitleWords)-1)
}

func TestIsSimilarToTitle(t *testing.T) {
	require.True(t, IsSimilarToTitle("Hellas Verona F.C.", "Hellas_Verona_FC_logo.svg", 0.9))
	require.True(t, IsSimilarToTitle("Juventus F.C.", "Juventus_logo.svg", 0.9))
	require.False(t, IsSimilarToTitle("Juventus F.C.", "Allianz_Stadium_panorama.jpg", 0.9))
	require.False(t, IsSimilarToTitle("", "Juventus_logo.svg", 0.9))
}
