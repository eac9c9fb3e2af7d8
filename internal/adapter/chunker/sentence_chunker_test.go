package chunker

import (
	"strings"
	"testing"

	"docsqa/internal/adapter/analyzer"
)

func TestSegmentIntoChunksSingleChunk(t *testing.T) {
	text := "The cat sat. The dog ran. Birds fly."

	chunks := SegmentIntoChunks(text, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != text {
		t.Errorf("expected chunk %q, got %q", text, chunks[0])
	}
}

func TestSegmentIntoChunksStrictBound(t *testing.T) {
	// "Aaaa. " and "Bbbb. " are 6 characters each; 6+6 is not < 12
	text := "Aaaa. Bbbb. "

	chunks := SegmentIntoChunks(text, 12)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks at the boundary, got %d: %q", len(chunks), chunks)
	}

	chunks = SegmentIntoChunks(text, 13)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk below the boundary, got %d: %q", len(chunks), chunks)
	}
}

func TestSegmentIntoChunksFlushesLast(t *testing.T) {
	text := "First sentence here. Second sentence here. Third one."

	chunks := SegmentIntoChunks(text, 25)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[2] != "Third one." {
		t.Errorf("expected trailing chunk %q, got %q", "Third one.", chunks[2])
	}
}

func TestSegmentIntoChunksLongSentence(t *testing.T) {
	long := "This is a very long sentence with many many words that will exceed the limit. "
	text := "Short one. " + long + "Tail."

	chunks := SegmentIntoChunks(text, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[1] != long {
		t.Errorf("oversized sentence should be its own chunk, got %q", chunks[1])
	}
}

func TestSegmentIntoChunksLongFirstSentence(t *testing.T) {
	text := "An opening sentence that is far too long for the limit. Ok."

	chunks := SegmentIntoChunks(text, 10)
	for i, c := range chunks {
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
}

func TestSegmentIntoChunksEmpty(t *testing.T) {
	if chunks := SegmentIntoChunks("", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %q", chunks)
	}
}

func TestSegmentIntoChunksProperties(t *testing.T) {
	text := strings.Repeat("Chemistry is the study of matter. It has a long history! Why? ", 20) +
		"Alchemy preceded modern chemistry by many centuries and shaped its early methods."
	const max = 60

	chunks := SegmentIntoChunks(text, max)

	if joined := strings.Join(chunks, ""); joined != text {
		t.Fatal("chunks do not reassemble the input")
	}

	for i, c := range chunks {
		if analyzer.Length(c) < max {
			continue
		}
		if n := len(analyzer.Sentences(c)); n != 1 {
			t.Errorf("chunk %d has length %d >= %d but holds %d sentences", i, analyzer.Length(c), max, n)
		}
	}

	again := SegmentIntoChunks(text, max)
	if len(again) != len(chunks) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(chunks), len(again))
	}
	for i := range chunks {
		if chunks[i] != again[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSentenceChunkerSanitize(t *testing.T) {
	c := NewSentenceChunker(100, true)

	chunks := c.Chunks("Price: $5 (cheap).\nBuy now.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %q", len(chunks), chunks)
	}
	if want := "Price: 5 cheap. Buy now."; chunks[0] != want {
		t.Errorf("expected %q, got %q", want, chunks[0])
	}

	raw := NewSentenceChunker(100, false)
	if got := raw.Chunks("a (b)")[0]; got != "a (b)" {
		t.Errorf("unsanitized chunker altered text: %q", got)
	}
}

func TestSentenceChunkerSentences(t *testing.T) {
	c := NewSentenceChunker(100, true)

	sentences := c.Sentences("One. Two.")
	if len(sentences) != 2 {
		t.Errorf("expected 2 sentences, got %q", sentences)
	}
}
