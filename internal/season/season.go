// Package season turns the free-text year ranges printed in career tables
// into intervals and per-season labels, and maps a season label to the
// historical name of each tracked top-division competition.
package season

import (
	"regexp"
	"strconv"
	"strings"
)

// Interval is the parsed form of a career period such as "2010–2013".
// End and Duration are nil for open-ended ("2019–") periods.
type Interval struct {
	Start    int  `json:"start"`
	End      *int `json:"end,omitempty"`
	Duration *int `json:"duration,omitempty"`
}

// Open reports whether the interval has no closing year.
func (iv Interval) Open() bool {
	return iv.End == nil
}

// Valid is false for descending closed ranges ("2015-2010"). Those parse,
// but carry a non-positive duration and expand to no seasons.
func (iv Interval) Valid() bool {
	return iv.End == nil || *iv.End >= iv.Start
}

var (
	singleYear = regexp.MustCompile(`^(\d{4})$`)
	closed     = regexp.MustCompile(`^(\d{4})\s*[-–]\s*(\d{4})$`)
	openEnded  = regexp.MustCompile(`^(\d{4})\s*[-–]\s*$`)
)

// Parse recognizes a single year, a closed range or an open range, with a
// hyphen or en-dash separator. ok is false for anything else; that is an
// expected outcome, callers skip the record.
func Parse(text string) (iv Interval, ok bool) {
	s := strings.TrimSpace(text)

	if m := singleYear.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		return closedInterval(y, y), true
	}
	if m := closed.FindStringSubmatch(s); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		return closedInterval(start, end), true
	}
	if m := openEnded.FindStringSubmatch(s); m != nil {
		start, _ := strconv.Atoi(m[1])
		return Interval{Start: start}, true
	}
	return Interval{}, false
}

func closedInterval(start, end int) Interval {
	duration := end - start + 1
	return Interval{Start: start, End: &end, Duration: &duration}
}

var firstYear = regexp.MustCompile(`\d{4}`)

// FirstYear returns the first four-digit year found anywhere in text. It is
// looser than Parse and only used by the coarse post-2010 roster filter.
func FirstYear(text string) (int, bool) {
	m := firstYear.FindString(text)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}
