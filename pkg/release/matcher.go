package release

import (
	"github.com/hbollon/go-edlib"
)

// MatchConfidence grades a fuzzy suggestion.
type MatchConfidence int

const (
	ConfidenceNone MatchConfidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// confidenceFloors holds the lowest score for each grade, best first.
var confidenceFloors = []struct {
	floor float64
	grade MatchConfidence
}{
	{0.95, ConfidenceHigh},
	{0.85, ConfidenceMedium},
	{0.70, ConfidenceLow},
}

var confidenceNames = map[MatchConfidence]string{
	ConfidenceHigh:   "high",
	ConfidenceMedium: "medium",
	ConfidenceLow:    "low",
}

func (c MatchConfidence) String() string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return "none"
}

func grade(score float64) MatchConfidence {
	for _, f := range confidenceFloors {
		if score >= f.floor {
			return f.grade
		}
	}
	return ConfidenceNone
}

// MatchResult is the best candidate for a fuzzy lookup.
type MatchResult struct {
	Value      string
	Score      float64
	Confidence MatchConfidence
}

// Suggest returns the candidate whose cleaned form is closest to input by
// Jaro-Winkler similarity. The first candidate wins ties. Below the low floor
// the result is empty.
func Suggest(input string, candidates []string) MatchResult {
	var best MatchResult
	cleaned := CleanTitle(input)
	for _, c := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(cleaned, CleanTitle(c)))
		if score > best.Score {
			best = MatchResult{Value: c, Score: score}
		}
	}

	best.Confidence = grade(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Value = ""
	}
	return best
}
