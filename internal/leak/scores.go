package leak

import (
	"regexp"
	"strconv"
	"strings"
)

// ScoreExtractor pulls numeric scores out of free-form model output.
// It recognizes three shapes, tried in order:
//
//	NAME_SCORE: 0.8
//	name: 0.8
//	name: 8/10
//
// Matching is case-insensitive, /10 values are normalized, results are
// clamped to [0,1]. Anything unparseable yields the neutral default 0.5.
type ScoreExtractor struct{}

const defaultScore = 0.5

func (ScoreExtractor) ExtractScore(response, name string) float64 {
	quoted := regexp.QuoteMeta(strings.ToLower(name))
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + quoted + `_SCORE:\s*([0-9]*\.?[0-9]+)\s*(/\s*10)?`),
		regexp.MustCompile(`(?i)` + quoted + `\s*:\s*([0-9]*\.?[0-9]+)\s*(/\s*10)?`),
	}

	for _, re := range patterns {
		match := re.FindStringSubmatch(response)
		if match == nil {
			continue
		}
		score, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if match[2] != "" && score > 1 {
			score /= 10
		}
		return clampScore(score)
	}
	return defaultScore
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
