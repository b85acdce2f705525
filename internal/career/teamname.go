package career

import (
	"regexp"
	"strings"
)

var (
	youthSuffix = regexp.MustCompile(`(?i)\s*national\s+under-\s*(\d+)\s+(?:association\s+)?(?:football|soccer)\s+team`)
	youthShort  = regexp.MustCompile(`(?i)\s+u-?\s*\d+$`)
	reserveTeam = regexp.MustCompile(`^(.*\S)\s+([BC])\.?$`)

	seniorSuffixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)men's national association football team`),
		regexp.MustCompile(`(?i)national association football team`),
		regexp.MustCompile(`(?i)men's national football team`),
		regexp.MustCompile(`(?i)men's national soccer team`),
		regexp.MustCompile(`(?i)national football team`),
	}
	spaces = regexp.MustCompile(`\s+`)
)

// DisplayTeamName shortens knowledge-base team labels for display:
// "Italy national under-21 football team" becomes "Italy under-21" and
// "Italy national football team" becomes "Italy".
func DisplayTeamName(name string) string {
	out := youthSuffix.ReplaceAllString(name, " under-$1")
	for _, re := range seniorSuffixes {
		out = re.ReplaceAllString(out, "")
	}
	return strings.TrimSpace(spaces.ReplaceAllString(out, " "))
}

// SeniorTeamTitle maps a youth national-team title to the senior team's
// page title. ok is false when the title is not a youth team.
func SeniorTeamTitle(title string) (string, bool) {
	if youthSuffix.MatchString(title) {
		base := youthSuffix.ReplaceAllString(title, "")
		return strings.TrimSpace(base) + " national football team", true
	}
	if youthShort.MatchString(title) {
		base := youthShort.ReplaceAllString(title, "")
		return strings.TrimSpace(base) + " national football team", true
	}
	return "", false
}

// ReserveParent strips an isolated trailing "B" or "C" ("Real Madrid B",
// "Barcelona C.") and returns the parent club name.
func ReserveParent(name string) (string, bool) {
	m := reserveTeam.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
