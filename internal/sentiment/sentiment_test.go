package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextPolarity(t *testing.T) {
	assert.Positive(t, TextPolarity("great product, excellent quality"))
	assert.Negative(t, TextPolarity("terrible, broken on arrival, waste of money"))
	assert.Zero(t, TextPolarity("it is a keyboard with keys"))
	assert.Zero(t, TextPolarity(""))
}

func TestTextPolarityNegation(t *testing.T) {
	assert.Negative(t, TextPolarity("not good at all"))
	assert.Positive(t, TextPolarity("not bad actually"))
	// Negator outside the two-word window does not flip.
	assert.Positive(t, TextPolarity("not that it matters, still great"))
}

func TestScoreBlending(t *testing.T) {
	// Rating dominates but text pulls the blend.
	high := Score(5, "love it, great quality")
	mixed := Score(5, "terrible quality, very disappointed")
	assert.Greater(t, high, mixed)
	assert.Greater(t, high, 0.0)

	// Rating-only review: polarity comes straight from stars.
	assert.Equal(t, 1.0, Score(5, ""))
	assert.Equal(t, -1.0, Score(1, "   "))
	assert.Equal(t, 0.0, Score(3, ""))
}

func TestScoreBounds(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		for _, body := range []string{"", "great great great", "awful awful awful"} {
			s := Score(rating, body)
			assert.GreaterOrEqual(t, s, -1.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestAggregated(t *testing.T) {
	agg := Aggregated(nil)
	assert.Equal(t, "none", agg.Label)
	assert.Zero(t, agg.Mean)

	agg = Aggregated([]float64{0.8, 0.6, 0.1, -0.5})
	assert.Equal(t, 2, agg.Positive)
	assert.Equal(t, 1, agg.Negative)
	assert.Equal(t, 1, agg.Neutral)
	assert.Equal(t, "positive", agg.Label)
	assert.InDelta(t, 0.25, agg.Mean, 0.001)

	agg = Aggregated([]float64{-0.9, -0.7})
	assert.Equal(t, "negative", agg.Label)

	agg = Aggregated([]float64{0.1, -0.1})
	assert.Equal(t, "mixed", agg.Label)
}
