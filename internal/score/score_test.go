package score

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/extract"
)

func plausibleMeta() extract.Metadata {
	return extract.Metadata{
		Title:    "Annual Report",
		Author:   "J. Author",
		Producer: "LibreOffice 7.6",
		Created:  time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		Modified: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

const sampleText = `PROJECT SUMMARY
The candidate has ten years of experience and is certified in two disciplines.
- education: verified degree
- reference: three professional references
- award: best project 2021
Skills include verified project delivery and licensed operation.`

func TestEvaluateDeterministic(t *testing.T) {
	p, err := ProfileByName("default")
	require.NoError(t, err)

	a := Evaluate(sampleText, plausibleMeta(), p)
	b := Evaluate(sampleText, plausibleMeta(), p)
	assert.Equal(t, a.Overall, b.Overall)
	assert.Equal(t, a.SubScores, b.SubScores)
	assert.Equal(t, Version, a.Version)
}

func TestEvaluateBounds(t *testing.T) {
	for _, name := range []string{"default", "strict", "lenient"} {
		p, err := ProfileByName(name)
		require.NoError(t, err)
		r := Evaluate(sampleText, plausibleMeta(), p)
		assert.GreaterOrEqual(t, r.Overall, 0.0, name)
		assert.LessOrEqual(t, r.Overall, 100.0, name)
		assert.Len(t, r.SubScores, 6, name)
		for sub, s := range r.SubScores {
			assert.GreaterOrEqual(t, s.Value, 0.0, "%s/%s", name, sub)
			assert.LessOrEqual(t, s.Value, 100.0, "%s/%s", name, sub)
		}
	}
}

func TestProfileWeightsSumToOne(t *testing.T) {
	for _, name := range []string{"default", "strict", "lenient"} {
		p, _ := ProfileByName(name)
		sum := 0.0
		for _, w := range p.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, name)
	}
}

func TestProfileByName(t *testing.T) {
	p, err := ProfileByName("")
	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)

	_, err = ProfileByName("bogus")
	assert.Error(t, err)
}

func TestMetadataPlausibility(t *testing.T) {
	full := metadataPlausibility(plausibleMeta())
	empty := metadataPlausibility(extract.Metadata{})
	assert.Greater(t, full.Value, empty.Value)
	assert.NotEmpty(t, empty.Reasons)

	future := plausibleMeta()
	future.Created = time.Now().Add(48 * time.Hour)
	sus := metadataPlausibility(future)
	assert.Less(t, sus.Value, full.Value)
	assert.Contains(t, sus.Reasons, "creation date is in the future")

	backwards := plausibleMeta()
	backwards.Modified = backwards.Created.Add(-time.Hour)
	assert.Contains(t, metadataPlausibility(backwards).Reasons, "modified before created")
}

func TestKeywordDensityStuffingPenalty(t *testing.T) {
	p, _ := ProfileByName("default")

	normal := keywordDensity(sampleText, p)
	stuffed := keywordDensity(strings.Repeat("certified verified experience ", 50), p)
	assert.Greater(t, normal.Value, 0.0)
	assert.Contains(t, stuffed.Reasons, "keyword density suggests stuffing")

	none := keywordDensity("lorem ipsum dolor sit amet", p)
	assert.Contains(t, none.Reasons, "none of the expected terms appear")

	empty := keywordDensity("", p)
	assert.Equal(t, 0.0, empty.Value)
}

func TestStructure(t *testing.T) {
	short := structure("tiny")
	assert.Contains(t, short.Reasons, "very short document")

	structured := structure(sampleText)
	assert.Greater(t, structured.Value, short.Value)
}

func TestBadgeTiers(t *testing.T) {
	assert.Equal(t, "highly_trusted", BadgeFor(80))
	assert.Equal(t, "trusted", BadgeFor(60))
	assert.Equal(t, "trusted", BadgeFor(79.9))
	assert.Equal(t, "needs_review", BadgeFor(40))
	assert.Equal(t, "low_trust", BadgeFor(39.9))
	assert.Equal(t, "low_trust", BadgeFor(0))
}

func TestSimulatedBand(t *testing.T) {
	for _, check := range []string{"identity", "profile", "skill"} {
		s := simulated(sampleText, plausibleMeta(), check)
		assert.GreaterOrEqual(t, s.Value, 35.0, check)
		assert.LessOrEqual(t, s.Value, 95.0, check)
	}
	// Different checks over the same document should not all collapse to
	// one value for typical inputs.
	a := simulated(sampleText, plausibleMeta(), "identity")
	b := simulated(sampleText, plausibleMeta(), "profile")
	c := simulated(sampleText, plausibleMeta(), "skill")
	assert.False(t, a.Value == b.Value && b.Value == c.Value)
}
