package qna_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/qna"
	"github.com/stretchr/testify/assert"
)

func questions(texts ...string) []tdassist.Question {
	out := make([]tdassist.Question, len(texts))
	for i, s := range texts {
		out[i] = tdassist.Question{Question: s, Difficulty: tdassist.DifficultyMedium}
	}
	return out
}

func texts(qs []tdassist.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Question
	}
	return out
}

func TestDedup(t *testing.T) {
	t.Parallel()

	t.Run("keeps first of case-insensitive duplicates", func(t *testing.T) {
		t.Parallel()

		got := qna.Dedup(questions("What is X?", "what is x?", "Other?"), 12)

		assert.Equal(t, []string{"What is X?", "Other?"}, texts(got))
	})

	t.Run("ignores surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		got := qna.Dedup(questions("Why?", "  why?  "), 12)

		assert.Equal(t, []string{"Why?"}, texts(got))
	})

	t.Run("drops empty questions", func(t *testing.T) {
		t.Parallel()

		got := qna.Dedup(questions("", "   ", "Who?"), 12)

		assert.Equal(t, []string{"Who?"}, texts(got))
	})

	t.Run("caps after deduplication", func(t *testing.T) {
		t.Parallel()

		var in []string
		for i := range 20 {
			in = append(in, fmt.Sprintf("Q%d?", i), fmt.Sprintf("q%d?", i))
		}

		got := qna.Dedup(questions(in...), 12)

		assert.Len(t, got, 12)
		assert.Equal(t, "Q11?", got[11].Question)
	})

	t.Run("returns empty, not nil", func(t *testing.T) {
		t.Parallel()

		got := qna.Dedup(nil, 12)

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
