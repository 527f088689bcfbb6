package qna

import "regexp"

var (
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	credentialPattern = regexp.MustCompile(`(?i)(api|secret|token|key)([=:])\s*[A-Za-z0-9_\-]{12,}`)
	longIDPattern     = regexp.MustCompile(`\b[0-9]{12,}\b`)
)

// Redact scrubs likely-sensitive substrings from page text before it
// leaves the process. Emails are replaced first, then the values of
// credential-like assignments (the key name is kept), then standalone
// digit runs of 12 or more.
func Redact(text string) string {
	text = emailPattern.ReplaceAllString(text, "[REDACTED_EMAIL]")
	text = credentialPattern.ReplaceAllString(text, "${1}${2}[REDACTED]")
	text = longIDPattern.ReplaceAllString(text, "[REDACTED_LONG_ID]")
	return text
}
