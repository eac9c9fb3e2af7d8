package chunker

import (
	"strings"

	"docsqa/internal/adapter/analyzer"
)

// SentenceChunker packs whole sentences into chunks shorter than maxChars
// user-perceived characters.
type SentenceChunker struct {
	maxChars int
	sanitize bool
}

func NewSentenceChunker(maxChars int, sanitize bool) *SentenceChunker {
	return &SentenceChunker{
		maxChars: maxChars,
		sanitize: sanitize,
	}
}

// Sentences returns the sentences of text, sanitized first if configured.
func (c *SentenceChunker) Sentences(text string) []string {
	return analyzer.Sentences(c.prepare(text))
}

// Chunks returns the chunks of text, sanitized first if configured.
func (c *SentenceChunker) Chunks(text string) []string {
	return SegmentIntoChunks(c.prepare(text), c.maxChars)
}

func (c *SentenceChunker) prepare(text string) string {
	if c.sanitize {
		return analyzer.PlainText(text)
	}
	return text
}

// SegmentIntoChunks greedily packs consecutive sentences while the running
// length stays strictly below maxChars. A sentence that does not fit starts a
// new chunk, and a sentence longer than maxChars on its own becomes a chunk by
// itself. Sentences are concatenated as-is, so joining the chunks gives back
// text unchanged.
func SegmentIntoChunks(text string, maxChars int) []string {
	var (
		chunks  []string
		current strings.Builder
		size    int
	)

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
		}
		current.Reset()
		size = 0
	}

	for _, sentence := range analyzer.Sentences(text) {
		n := analyzer.Length(sentence)
		if size+n >= maxChars {
			flush()
		}
		current.WriteString(sentence)
		size += n
	}
	flush()

	return chunks
}
