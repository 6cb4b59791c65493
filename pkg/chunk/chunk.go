package chunk

import (
	"errors"
	"fmt"
	"sort"
)

// Chunk is one size-bounded, ordered fragment of a serialized snapshot.
// Concatenating payloads in ascending Part order reproduces the original
// byte stream exactly.
type Chunk struct {
	Part    int    `json:"part"`
	Payload []byte `json:"data"`
}

var (
	// ErrZeroChunkSize is returned by Split when maxSize is zero.
	ErrZeroChunkSize = errors.New("chunk: max size must be positive")
	// ErrMissingChunk is returned by Reassemble when the part indices are
	// not contiguous from zero, signaling a partially-synced or corrupted
	// snapshot.
	ErrMissingChunk = errors.New("chunk: missing part")
	// ErrAmbiguousOrder is returned by Reassemble when two chunks share a
	// part index.
	ErrAmbiguousOrder = errors.New("chunk: duplicate part")
)

// Split slices data into chunks of at most maxSize bytes, greedily from
// byte 0. The last chunk may be shorter. Split of an empty slice yields no
// chunks.
func Split(data []byte, maxSize int) ([]Chunk, error) {
	if maxSize <= 0 {
		return nil, ErrZeroChunkSize
	}
	var out []Chunk
	for i, part := 0, 0; i < len(data); i, part = i+maxSize, part+1 {
		end := i + maxSize
		if end > len(data) {
			end = len(data)
		}
		p := make([]byte, end-i)
		copy(p, data[i:end])
		out = append(out, Chunk{Part: part, Payload: p})
	}
	return out, nil
}

// Reassemble orders chunks by part index and concatenates their payloads.
// Part indices must be contiguous from 0 and unique.
func Reassemble(chunks []Chunk) ([]byte, error) {
	cs := make([]Chunk, len(chunks))
	copy(cs, chunks)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Part < cs[j].Part })

	var total int
	for i, c := range cs {
		if c.Part != i {
			if i > 0 && c.Part == cs[i-1].Part {
				return nil, fmt.Errorf("%w: part %d seen twice", ErrAmbiguousOrder, c.Part)
			}
			return nil, fmt.Errorf("%w: expected part %d, found %d", ErrMissingChunk, i, c.Part)
		}
		total += len(c.Payload)
	}
	out := make([]byte, 0, total)
	for _, c := range cs {
		out = append(out, c.Payload...)
	}
	return out, nil
}
