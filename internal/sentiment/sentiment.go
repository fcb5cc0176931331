// Package sentiment scores review text with a small polarity lexicon and
// blends it with the star rating. It is the same keyword-counting style of
// heuristic as the trust scorer, tuned for short review prose.
package sentiment

import (
	"math"
	"regexp"
	"strings"
)

var positive = map[string]bool{
	"good": true, "great": true, "excellent": true, "amazing": true,
	"love": true, "loved": true, "perfect": true, "awesome": true,
	"fantastic": true, "recommend": true, "happy": true, "best": true,
	"quality": true, "fast": true, "reliable": true, "solid": true,
}

var negative = map[string]bool{
	"bad": true, "poor": true, "terrible": true, "awful": true,
	"hate": true, "hated": true, "broken": true, "worst": true,
	"slow": true, "disappointed": true, "disappointing": true,
	"refund": true, "waste": true, "cheap": true, "defective": true,
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "hardly": true, "isnt": true,
	"wasnt": true, "dont": true, "didnt": true, "doesnt": true, "cant": true,
}

var wordRe = regexp.MustCompile(`[a-z']+`)

// TextPolarity returns -1..1 for the body text alone. A negator within the
// two preceding words flips a hit's polarity. Empty or lexicon-free text is
// neutral (0).
func TextPolarity(body string) float64 {
	words := wordRe.FindAllString(strings.ToLower(body), -1)
	if len(words) == 0 {
		return 0
	}

	score := 0
	hits := 0
	for i, w := range words {
		w = strings.ReplaceAll(w, "'", "")
		pol := 0
		if positive[w] {
			pol = 1
		} else if negative[w] {
			pol = -1
		}
		if pol == 0 {
			continue
		}
		for j := max(0, i-2); j < i; j++ {
			if negators[strings.ReplaceAll(words[j], "'", "")] {
				pol = -pol
				break
			}
		}
		score += pol
		hits++
	}
	if hits == 0 {
		return 0
	}
	return float64(score) / float64(hits)
}

// Score blends the star rating (1..5, dominant signal) with text polarity.
// The result is -1..1.
func Score(rating int, body string) float64 {
	ratingPol := (float64(rating) - 3) / 2 // 1..5 -> -1..1
	textPol := TextPolarity(body)
	if strings.TrimSpace(body) == "" {
		return ratingPol
	}
	return clamp(0.6*ratingPol+0.4*textPol, -1, 1)
}

type Aggregate struct {
	Mean     float64 `json:"mean"`
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Neutral  int     `json:"neutral"`
	Label    string  `json:"label"`
}

// Aggregated buckets per-review scores at ±0.2 and labels the mean.
func Aggregated(scores []float64) Aggregate {
	agg := Aggregate{Label: "none"}
	if len(scores) == 0 {
		return agg
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
		switch {
		case s > 0.2:
			agg.Positive++
		case s < -0.2:
			agg.Negative++
		default:
			agg.Neutral++
		}
	}
	agg.Mean = math.Round(sum/float64(len(scores))*100) / 100
	switch {
	case agg.Mean > 0.2:
		agg.Label = "positive"
	case agg.Mean < -0.2:
		agg.Label = "negative"
	default:
		agg.Label = "mixed"
	}
	return agg
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
