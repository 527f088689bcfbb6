package tdassist

import (
	"context"
	"strings"
)

// MaxQuestionsPerSection caps each question category of a PageQnA.
const MaxQuestionsPerSection = 12

// Difficulty grades a question.
type Difficulty string

// Supported difficulties.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty maps a case-insensitive difficulty name to a Difficulty.
// The bool result is false for unrecognized names.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	}
	return "", false
}

// Question is a single generated modernization question.
type Question struct {
	Question   string     `json:"question"`
	AnswerHint string     `json:"answerHint"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags"`
}

// Mode selects which question categories are generated.
type Mode string

// Supported modes.
const (
	ModeBoth      Mode = "both"
	ModeDomain    Mode = "domain"
	ModeTechnical Mode = "technical"
)

// ParseMode validates a mode name. Empty selects ModeBoth.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeBoth, nil
	case ModeBoth, ModeDomain, ModeTechnical:
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown mode %q (want both, domain or technical)", s)
}

// WantsDomain reports whether domain questions are generated in this mode.
func (m Mode) WantsDomain() bool { return m != ModeTechnical }

// WantsTechnical reports whether technical questions are generated in this mode.
func (m Mode) WantsTechnical() bool { return m != ModeDomain }

// PageQnA holds the questions derived from one PageRecord.
type PageQnA struct {
	URL                string     `json:"url"`
	Title              string     `json:"title"`
	DomainQuestions    []Question `json:"domainQuestions"`
	TechnicalQuestions []Question `json:"technicalQuestions"`
	Skipped            bool       `json:"skipped,omitempty"`
	Error              string     `json:"error,omitempty"`
}

// QnABundle is the output bundle of one Q&A generation run.
type QnABundle struct {
	GeneratedAt int64      `json:"generatedAtEpochSeconds"`
	Items       []*PageQnA `json:"items"`
}

// Completer sends a single prompt to a chat-completion language model and
// returns the assistant message text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
