package domain

// Document is one corpus file, read whole.
type Document struct {
	Path string
	Text string
}

// Chunk is a bounded piece of a document together with its embedding.
// Chunks are immutable once placed in an index.
type Chunk struct {
	Source    string    `json:"source,omitempty"`
	Seq       int       `json:"seq"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// Match is a chunk that was scored against a query. Position is the
// chunk's place in the index.
type Match struct {
	Position int     `json:"position"`
	Source   string  `json:"source,omitempty"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}

// Answer is the outcome of one question.
type Answer struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Context  string  `json:"context"`
	Matches  []Match `json:"matches"`
	Text     string  `json:"answer"`
}
