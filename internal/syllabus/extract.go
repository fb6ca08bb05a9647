// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/curriculum-graph/pkg/types"
)

var weekMarker = regexp.MustCompile(`(?i)\bWEEK\s*(ONE|TWO|THREE|FOUR|FIVE|SIX|SEVEN|EIGHT|NINE|TEN|\d+)\b`)

var weekWords = map[string]int{
	"ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4, "FIVE": 5,
	"SIX": 6, "SEVEN": 7, "EIGHT": 8, "NINE": 9, "TEN": 10,
}

const (
	topicTrim      = " :-–—\t"
	topicLookahead = 3
	minTopicLen    = 3
)

// WeekNumber parses a week token: digits or a number word ONE..TEN.
// It returns -1 when the token is neither.
func WeekNumber(token string) int {
	token = strings.ToUpper(strings.TrimSpace(token))
	if n, err := strconv.Atoi(token); err == nil {
		return n
	}
	if n, ok := weekWords[token]; ok {
		return n
	}
	return -1
}

// ExtractWeekTopics finds "WEEK n" markers in lines and pairs each with a
// topic: the rest of the marker line, or else the first line of at least
// three characters among the next three that does not start another week.
// Weeks without a positive number or a topic are dropped, a repeated week
// keeps its first topic, and the result is ordered by week.
//
// Marker text is stripped but the remainder is not validated, so a line
// such as "WEEK SEVEN AND EIGHT" yields week 7 with topic "AND EIGHT".
func ExtractWeekTopics(lines []string) []types.WeekTopic {
	var found []types.WeekTopic
	for i, line := range lines {
		m := weekMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		week := WeekNumber(m[1])

		topic := strings.Trim(weekMarker.ReplaceAllString(line, ""), topicTrim)
		if topic == "" {
			for j := i + 1; j < len(lines) && j <= i+topicLookahead; j++ {
				cand := lines[j]
				if weekMarker.MatchString(cand) {
					break
				}
				if utf8.RuneCountInString(cand) >= minTopicLen {
					topic = cand
					break
				}
			}
		}

		if week > 0 && topic != "" {
			found = append(found, types.WeekTopic{Week: week, Topic: topic})
		}
	}

	seen := make(map[int]bool, len(found))
	out := make([]types.WeekTopic, 0, len(found))
	for _, wt := range found {
		if seen[wt.Week] {
			continue
		}
		seen[wt.Week] = true
		out = append(out, wt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}
