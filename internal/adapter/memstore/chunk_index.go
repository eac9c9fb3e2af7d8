package memstore

import "docsqa/internal/domain"

// ChunkIndex is an ordered, in-memory list of embedded chunks. Insertion
// order is corpus order. Chunks are appended during a build and only read
// afterwards; a rebuild produces a new index rather than mutating this one.
type ChunkIndex struct {
	chunks []domain.Chunk
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{}
}

// Append adds a chunk. Chunks without an embedding are rejected and false
// is returned.
func (x *ChunkIndex) Append(chunk domain.Chunk) bool {
	if len(chunk.Embedding) == 0 {
		return false
	}
	x.chunks = append(x.chunks, chunk)
	return true
}

func (x *ChunkIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.chunks)
}

func (x *ChunkIndex) At(i int) domain.Chunk {
	return x.chunks[i]
}

// Chunks returns a copy of the chunk list in index order.
func (x *ChunkIndex) Chunks() []domain.Chunk {
	if x == nil {
		return nil
	}
	out := make([]domain.Chunk, len(x.chunks))
	copy(out, x.chunks)
	return out
}

// Dimensions returns the distinct embedding lengths present, in order of
// first appearance.
func (x *ChunkIndex) Dimensions() []int {
	var dims []int
	seen := make(map[int]struct{})
	for _, c := range x.Chunks() {
		n := len(c.Embedding)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		dims = append(dims, n)
	}
	return dims
}
