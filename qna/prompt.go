package qna

import (
	"fmt"
	"strings"

	"github.com/fwojciec/tdassist"
)

// maxPromptChunkChars bounds the page text embedded in one prompt.
const maxPromptChunkChars = 4000

// SystemPrompt is sent as the system message of every completion.
const SystemPrompt = "You are a precise analyst."

// BuildPrompt builds the instruction for one chunk of a page.
func BuildPrompt(pageURL, title, chunk string, mode tdassist.Mode) string {
	if title == "" {
		title = "Untitled"
	}

	var sb strings.Builder
	sb.WriteString("You create high-value questions for modernization planning.\n\n")
	fmt.Fprintf(&sb, "Page URL: %s\n", pageURL)
	fmt.Fprintf(&sb, "Title: %s\n\n", title)
	sb.WriteString("Content snippet:\n")
	fmt.Fprintf(&sb, ">>> %s <<<\n\n", tdassist.Truncate(chunk, maxPromptChunkChars))
	sb.WriteString("Tasks:\n")
	sb.WriteString("1) DOMAIN QUESTIONS: purpose, actors, rules, data fields, KPIs, edge cases.\n")
	sb.WriteString("2) TECHNICAL QUESTIONS: UI behavior, validations, accessibility, state, performance, APIs, roles, i18n, security.\n\n")
	sb.WriteString("Output JSON:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "domain_questions": [{"q":"...","answer_hint":"...","difficulty":"Easy|Medium|Hard","tags":["business","rules"]}],` + "\n")
	sb.WriteString(`  "technical_questions": [{"q":"...","answer_hint":"...","difficulty":"Easy|Medium|Hard","tags":["api","validation"]}]` + "\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- 8-12 concise questions per section (skip if little signal).\n")
	sb.WriteString("- Prefer why/how/what-if questions that influence migration decisions.\n")

	switch mode {
	case tdassist.ModeDomain:
		sb.WriteString("\nOnly domain_questions; set technical_questions to [].")
	case tdassist.ModeTechnical:
		sb.WriteString("\nOnly technical_questions; set domain_questions to [].")
	}
	return sb.String()
}
