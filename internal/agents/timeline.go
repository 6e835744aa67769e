package agents

import (
	"regexp"
	"strconv"
)

// DefaultFollowUpDays applies when a timeline carries no integer.
const DefaultFollowUpDays = 7

var firstInt = regexp.MustCompile(`\d+`)

// ParseTimelineDays returns the first integer in the timeline as a day
// count. Units are ignored: "2 weeks" is 2.
func ParseTimelineDays(timeline string) int {
	m := firstInt.FindString(timeline)
	if m == "" {
		return DefaultFollowUpDays
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return DefaultFollowUpDays
	}
	return n
}
