package qna

import (
	"strings"

	"github.com/fwojciec/tdassist"
)

// Dedup drops questions with empty text and questions whose text repeats
// an earlier one, compared case-insensitively after trimming. The first
// occurrence wins and at most limit questions are kept.
func Dedup(questions []tdassist.Question, limit int) []tdassist.Question {
	seen := make(map[string]bool, len(questions))
	out := make([]tdassist.Question, 0, min(len(questions), max(limit, 0)))
	for _, q := range questions {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(strings.TrimSpace(q.Question))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}
