// Package score computes the heuristic trust score for an extracted
// document: independent sub-scores (metadata plausibility, keyword density,
// structure, simulated identity/profile/skill checks) combined with
// hand-tuned per-profile weights into a 0..100 overall and a badge tier.
package score

import (
	"crypto/sha256"
	"math"
	"regexp"
	"strings"
	"time"

	"veridoc/internal/extract"
)

type SubScore struct {
	Value   float64  `json:"value"`
	Reasons []string `json:"reasons,omitempty"`
}

type Report struct {
	Profile   string              `json:"profile"`
	Overall   float64             `json:"overall"`
	Badge     string              `json:"badge"`
	SubScores map[string]SubScore `json:"sub_scores"`
	Version   string              `json:"version"`
}

const Version = "v3"

// Badge thresholds are ordinal tiers over the overall score.
func BadgeFor(overall float64) string {
	switch {
	case overall >= 80:
		return "highly_trusted"
	case overall >= 60:
		return "trusted"
	case overall >= 40:
		return "needs_review"
	default:
		return "low_trust"
	}
}

// Evaluate is pure: the same text, metadata and profile always produce the
// same report.
func Evaluate(text string, meta extract.Metadata, p Profile) *Report {
	subs := map[string]SubScore{
		"metadata_plausibility": metadataPlausibility(meta),
		"keyword_density":       keywordDensity(text, p),
		"structure":             structure(text),
		"identity":              simulated(text, meta, "identity"),
		"profile_match":         simulated(text, meta, "profile"),
		"skill_signals":         simulated(text, meta, "skill"),
	}

	overall := 0.0
	for name, w := range p.Weights {
		if s, ok := subs[name]; ok {
			overall += w * s.Value
		}
	}
	overall = clamp(overall, 0, 100)

	return &Report{
		Profile:   p.Name,
		Overall:   math.Round(overall*10) / 10,
		Badge:     BadgeFor(overall),
		SubScores: subs,
		Version:   Version,
	}
}

func metadataPlausibility(meta extract.Metadata) SubScore {
	score := 50.0
	var reasons []string

	if meta.Author != "" {
		score += 15
	} else {
		reasons = append(reasons, "no author recorded")
	}
	if meta.Title != "" {
		score += 10
	} else {
		reasons = append(reasons, "no title recorded")
	}
	if meta.Producer != "" || meta.Creator != "" {
		score += 10
	} else {
		reasons = append(reasons, "no producing application recorded")
	}

	now := time.Now()
	switch {
	case meta.Created.IsZero():
		reasons = append(reasons, "no creation date")
		score -= 5
	case meta.Created.After(now):
		reasons = append(reasons, "creation date is in the future")
		score -= 25
	default:
		score += 10
	}
	if !meta.Modified.IsZero() && !meta.Created.IsZero() && meta.Modified.Before(meta.Created) {
		reasons = append(reasons, "modified before created")
		score -= 15
	}

	return SubScore{Value: clamp(score, 0, 100), Reasons: reasons}
}

func keywordDensity(text string, p Profile) SubScore {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))
	if words == 0 {
		return SubScore{Value: 0, Reasons: []string{"document has no text"}}
	}

	hits := 0
	matched := 0
	for _, kw := range p.Keywords {
		n := strings.Count(lower, kw)
		if n > 0 {
			matched++
		}
		hits += n
	}

	var reasons []string
	coverage := float64(matched) / float64(len(p.Keywords))
	density := float64(hits) / float64(words)

	score := 20 + coverage*60
	if density > 0.04 {
		// Keyword stuffing reads as manipulation, not substance.
		pen := math.Min(30, (density-0.04)*500)
		score -= pen
		reasons = append(reasons, "keyword density suggests stuffing")
	} else if hits > 0 {
		score += math.Min(20, density*400)
	}
	if matched == 0 {
		reasons = append(reasons, "none of the expected terms appear")
	}

	return SubScore{Value: clamp(score, 0, 100), Reasons: reasons}
}

var (
	headingRe = regexp.MustCompile(`(?m)^(?:[A-Z][A-Z0-9 ]{3,}|\d+\.\d*\s+\S+)`)
	bulletRe  = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+\.)\s+`)
	numericRe = regexp.MustCompile(`\b\d+(?:\.\d+)?%?\b`)
)

func structure(text string) SubScore {
	var reasons []string
	words := len(strings.Fields(text))

	score := 40.0
	switch {
	case words < 50:
		score -= 20
		reasons = append(reasons, "very short document")
	case words <= 5000:
		score += 20
	default:
		score += 5
		reasons = append(reasons, "unusually long document")
	}

	if headingRe.MatchString(text) {
		score += 15
	} else {
		reasons = append(reasons, "no recognizable headings")
	}
	if n := len(bulletRe.FindAllString(text, -1)); n >= 3 {
		score += 10
	}

	numbers := len(numericRe.FindAllString(text, -1))
	if words > 0 {
		nd := float64(numbers) / float64(words)
		if nd > 0.15 {
			score -= 15
			reasons = append(reasons, "numeric claim density is very high")
		} else if numbers > 0 {
			score += 10
		}
	}

	return SubScore{Value: clamp(score, 0, 100), Reasons: reasons}
}

// simulated derives the identity/profile/skill sub-scores the demo pipeline
// cannot actually verify. They are deterministic over the document digest so
// repeated runs agree, and they sit in a believable 35..95 band.
func simulated(text string, meta extract.Metadata, check string) SubScore {
	h := sha256.New()
	h.Write([]byte(check))
	h.Write([]byte(meta.Author))
	h.Write([]byte(meta.Title))
	h.Write([]byte(text))
	sum := h.Sum(nil)

	v := 35 + float64(int(sum[0])%61)
	return SubScore{Value: v}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
