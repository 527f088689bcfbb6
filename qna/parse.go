package qna

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/tdassist"
)

// Result holds the questions parsed from one model response.
type Result struct {
	Domain    []tdassist.Question
	Technical []tdassist.Question
}

// Parse extracts the trailing JSON object from a model response and
// decodes its question lists. Malformed items are dropped individually; an
// error is returned only when no usable object is found, in which case the
// caller should treat the response as empty.
func Parse(text string) (Result, error) {
	payload, ok := TrailingJSON(text)
	if !ok {
		return Result{}, tdassist.Errorf(tdassist.EINVALID, "no trailing JSON object in response")
	}

	var doc struct {
		Domain       []json.RawMessage `json:"domain_questions"`
		Technical    []json.RawMessage `json:"technical_questions"`
		DomainAlt    []json.RawMessage `json:"domainQuestions"`
		TechnicalAlt []json.RawMessage `json:"technicalQuestions"`
	}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return Result{}, tdassist.Errorf(tdassist.EINVALID, "decoding response JSON: %v", err)
	}
	if doc.Domain == nil {
		doc.Domain = doc.DomainAlt
	}
	if doc.Technical == nil {
		doc.Technical = doc.TechnicalAlt
	}

	return Result{
		Domain:    decodeQuestions(doc.Domain),
		Technical: decodeQuestions(doc.Technical),
	}, nil
}

// TrailingJSON finds the JSON object that ends the text: the first "{"
// whose balanced object closes exactly at the end, ignoring surrounding
// whitespace and a closing code fence. Braces inside JSON strings are not
// counted.
func TrailingJSON(text string) (string, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))

	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end, ok := objectEnd(s, i)
		if !ok {
			continue
		}
		if end == len(s) {
			return s[i:], true
		}
		// Any object opening inside this one closes before the end too
		i = end - 1
	}
	return "", false
}

// objectEnd returns the index just past the "}" that balances the "{" at
// start, or false if the text ends first.
func objectEnd(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// rawQuestion accepts both the snake_case keys the prompt asks for and the
// camelCase keys of the output format.
type rawQuestion struct {
	Q               string  `json:"q"`
	Question        string  `json:"question"`
	AnswerHint      string  `json:"answer_hint"`
	AnswerHintCamel string  `json:"answerHint"`
	Difficulty      string  `json:"difficulty"`
	Tags            tagList `json:"tags"`
}

// tagList decodes either an array of strings or a comma-separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = strings.Split(s, ",")
	return nil
}

func decodeQuestions(items []json.RawMessage) []tdassist.Question {
	out := make([]tdassist.Question, 0, len(items))
	for _, item := range items {
		var raw rawQuestion
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		q, ok := raw.question()
		if !ok {
			continue
		}
		out = append(out, q)
	}
	return out
}

func (r rawQuestion) question() (tdassist.Question, bool) {
	text := strings.TrimSpace(r.Q)
	if text == "" {
		text = strings.TrimSpace(r.Question)
	}
	if text == "" {
		return tdassist.Question{}, false
	}

	hint := r.AnswerHint
	if hint == "" {
		hint = r.AnswerHintCamel
	}

	difficulty, ok := tdassist.ParseDifficulty(r.Difficulty)
	if !ok {
		difficulty = tdassist.DifficultyMedium
	}

	return tdassist.Question{
		Question:   text,
		AnswerHint: strings.TrimSpace(hint),
		Difficulty: difficulty,
		Tags:       cleanTags(r.Tags),
	}, true
}

// cleanTags trims tags and drops empty and repeated ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
