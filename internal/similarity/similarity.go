// Package similarity scores how alike two short strings are. It backs the
// fuzzy comparison of team page titles with crest file names.
package similarity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// MaxTitleWords bounds the number of title words expanded into
// combinations; 2^n-1 combinations are generated.
const MaxTitleWords = 12

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)), compared
// case-insensitively. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(maxLen)
}

var (
	imageExtension = regexp.MustCompile(`(?i)\.(png|svg|jpg|jpeg)$`)
	symbols        = regexp.MustCompile(`[.\-_&%]`)
	noiseWords     = regexp.MustCompile(`(?i)escudo|scudo|logo|badge|crest`)
)

// CleanFilename drops the image extension, punctuation and crest noise
// words so "Hellas_Verona_FC_logo.svg" becomes "hellasveronafc".
func CleanFilename(name string) string {
	out := imageExtension.ReplaceAllString(name, "")
	out = strings.ToLower(symbols.ReplaceAllString(out, ""))
	return noiseWords.ReplaceAllString(out, "")
}

// TitleWords splits a page title into lowercased words without punctuation.
func TitleWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(title) {
		w = strings.ToLower(symbols.ReplaceAllString(w, ""))
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Combinations returns every non-empty ordered subset of words, each
// concatenated in original order. Subsets, not permutations: three words
// give seven combinations.
func Combinations(words []string) []string {
	if len(words) > MaxTitleWords {
		words = words[:MaxTitleWords]
	}
	n := len(words)
	result := make([]string, 0, (1<<n)-1)
	for mask := 1; mask < 1<<n; mask++ {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				sb.WriteString(words[i])
			}
		}
		result = append(result, sb.String())
	}
	return result
}

// IsSimilarToTitle reports whether any word combination of title is at
// least threshold-similar to the cleaned file name.
func IsSimilarToTitle(title, filename string, threshold float64) bool {
	candidate := CleanFilename(filename)
	for _, combo := range Combinations(TitleWords(title)) {
		if Similarity(combo, candidate) >= threshold {
			return true
		}
	}
	return false
}
