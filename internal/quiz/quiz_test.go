package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Red-Black Tree Review

1. What is the maximum height of a Red-Black Tree with n nodes?
A) 2*log(n+1)
B) log(n)
C) n-1
D) n/2
Answer: A

2. In a Red-Black Tree, a red node can have how many
red children?
A) 0
B) 1
C) 2
D) 3
Answer: A

Some closing prose that is not a question.`

func TestParse(t *testing.T) {
	qs := Parse(sample)
	require.Len(t, qs, 2)

	assert.Equal(t, 1, qs[0].Seq)
	assert.Equal(t, "What is the maximum height of a Red-Black Tree with n nodes?", qs[0].Prompt)
	assert.Equal(t, []string{"2*log(n+1)", "log(n)", "n-1", "n/2"}, qs[0].Options)
	assert.Equal(t, "A", qs[0].Answer)

	// Prompt continuation lines before options are folded in.
	assert.Equal(t, "In a Red-Black Tree, a red node can have how many red children?", qs[1].Prompt)
	assert.Equal(t, 2, qs[1].Seq)
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	text := `1. Question without an answer line
A) yes
B) no

2. Question with too few options
A) only one
Answer: A

3. Answer label outside the option range
A) first
B) second
Answer: D

4. A complete question
A) right
B) wrong
Answer: B`
	qs := Parse(text)
	require.Len(t, qs, 1)
	assert.Equal(t, "A complete question", qs[0].Prompt)
	// Survivors are renumbered sequentially.
	assert.Equal(t, 1, qs[0].Seq)
	assert.Equal(t, "B", qs[0].Answer)
}

func TestParseAlternateMarkers(t *testing.T) {
	text := `Q1. Lowercase labels and Ans shorthand work too
a. option one
b. option two
Ans: b`
	qs := Parse(text)
	require.Len(t, qs, 1)
	assert.Equal(t, []string{"option one", "option two"}, qs[0].Options)
	assert.Equal(t, "B", qs[0].Answer)
}

func TestParseEmptyText(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("just prose, no questions at all"))
}

func TestGrade(t *testing.T) {
	qs := []Question{
		{Seq: 1, Prompt: "q1", Options: []string{"x", "y"}, Answer: "A"},
		{Seq: 2, Prompt: "q2", Options: []string{"x", "y"}, Answer: "B"},
		{Seq: 3, Prompt: "q3", Options: []string{"x", "y"}, Answer: "A"},
	}
	res := Grade(qs, map[int]string{1: "a", 2: "A", 9: "C"})

	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Verdicts, 3)

	assert.True(t, res.Verdicts[0].Correct)
	assert.Empty(t, res.Verdicts[0].Expected)

	// Wrong and unanswered questions reveal the expected label.
	assert.False(t, res.Verdicts[1].Correct)
	assert.Equal(t, "B", res.Verdicts[1].Expected)
	assert.False(t, res.Verdicts[2].Correct)
	assert.Equal(t, "A", res.Verdicts[2].Expected)

	assert.Equal(t, []int{9}, res.Skipped)
}

func TestGradeAllCorrect(t *testing.T) {
	qs := []Question{
		{Seq: 1, Answer: "A"},
		{Seq: 2, Answer: "C"},
	}
	res := Grade(qs, map[int]string{1: "A", 2: "C"})
	assert.Equal(t, 2, res.Score)
	assert.Empty(t, res.Skipped)
}
