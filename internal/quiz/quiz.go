// Package quiz segments extracted document text into multiple-choice
// question tuples and grades submitted answers.
//
// The recognized pattern is line oriented:
//
//	1. What is the maximum height of a Red-Black Tree with n nodes?
//	A) 2*log(n+1)
//	B) log(n)
//	C) n-1
//	D) n/2
//	Answer: A
//
// Blocks that do not complete the pattern are skipped.
package quiz

import (
	"regexp"
	"sort"
	"strings"
)

type Question struct {
	Seq     int      `json:"seq"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	// Answer is the option label (A..F). Never serialized to quiz takers;
	// the HTTP layer strips it.
	Answer string `json:"answer"`
}

var (
	questionRe = regexp.MustCompile(`^(?:Q\s*)?(\d+)[.)]\s+(.+)$`)
	optionRe   = regexp.MustCompile(`^([A-Fa-f])[.)]\s+(.+)$`)
	answerRe   = regexp.MustCompile(`^(?:Answer|Ans|Correct)\s*[:=]?\s*([A-Fa-f])\b`)
)

const (
	minOptions = 2
	maxOptions = 6
)

// Parse scans text line by line and returns every complete
// question/options/answer tuple, renumbered sequentially.
func Parse(text string) []Question {
	var out []Question
	var cur *Question

	flush := func() {
		if cur == nil {
			return
		}
		if cur.Answer != "" && len(cur.Options) >= minOptions {
			idx := int(cur.Answer[0] - 'A')
			if idx < len(cur.Options) {
				cur.Seq = len(out) + 1
				out = append(out, *cur)
			}
		}
		cur = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Question{Prompt: m[2]}
			continue
		}
		if cur == nil {
			continue
		}
		if m := answerRe.FindStringSubmatch(line); m != nil {
			cur.Answer = strings.ToUpper(m[1])
			flush()
			continue
		}
		if m := optionRe.FindStringSubmatch(line); m != nil && len(cur.Options) < maxOptions {
			// Option labels must arrive in order; a stray "C)" without A/B
			// is prose, not an option.
			want := byte('A' + len(cur.Options))
			if strings.ToUpper(m[1])[0] == want {
				cur.Options = append(cur.Options, m[2])
				continue
			}
		}
		// Continuation of the prompt before options begin.
		if len(cur.Options) == 0 && cur.Answer == "" {
			cur.Prompt += " " + line
		}
	}
	flush()
	return out
}

type Verdict struct {
	Seq     int    `json:"seq"`
	Correct bool   `json:"correct"`
	// Expected carries the correct label only when the answer was wrong,
	// mirroring the reveal-on-miss behavior of the interactive quiz.
	Expected string `json:"expected,omitempty"`
}

type GradeResult struct {
	Score    int       `json:"score"`
	Total    int       `json:"total"`
	Verdicts []Verdict `json:"verdicts"`
	Skipped  []int     `json:"skipped,omitempty"`
}

// Grade scores answers keyed by question seq. Questions without a submitted
// answer count as wrong; submitted seqs that match no question are reported
// in Skipped.
func Grade(questions []Question, answers map[int]string) *GradeResult {
	res := &GradeResult{Total: len(questions)}
	known := make(map[int]bool, len(questions))
	for _, q := range questions {
		known[q.Seq] = true
		got := strings.ToUpper(strings.TrimSpace(answers[q.Seq]))
		v := Verdict{Seq: q.Seq, Correct: got == q.Answer}
		if v.Correct {
			res.Score++
		} else {
			v.Expected = q.Answer
		}
		res.Verdicts = append(res.Verdicts, v)
	}
	for seq := range answers {
		if !known[seq] {
			res.Skipped = append(res.Skipped, seq)
		}
	}
	sort.Ints(res.Skipped)
	return res
}
