package qna

// Chunking defaults.
const (
	DefaultChunkSize    = 8000
	DefaultChunkOverlap = 800
)

// Chunk splits text into windows of at most maxChars characters, each
// starting maxChars-overlap characters after the previous one. Text that
// fits in one window is returned whole. The last window always reaches the
// end of the text and no window starts after it.
func Chunk(text string, maxChars, overlap int) []string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []string{text}
	}

	step := maxChars - overlap
	if step <= 0 {
		step = maxChars
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := min(start+maxChars, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
