package port

// Segmenter splits text into sentences and packs them into bounded chunks.
type Segmenter interface {
	Sentences(text string) []string
	Chunks(text string) []string
}
