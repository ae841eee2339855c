package service

import (
	"strings"
)

// Chunker splits text into overlapping passages of roughly size characters.
// It splits recursively on a separator priority list (paragraph break, line
// break, space, character boundary): the coarsest separator present is tried
// first, oversized segments are re-split on the next finer one, and adjacent
// small segments are merged back up to the target size with the trailing
// overlap characters repeated at the start of the next chunk. Deterministic:
// the same input always yields the same chunks.
type Chunker struct {
	size       int
	overlap    int
	separators []string
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Chunker{
		size:       size,
		overlap:    overlap,
		separators: []string{"\n\n", "\n", " ", ""},
	}
}

// Split returns the ordered chunk sequence for text. Text shorter than the
// target size yields exactly one chunk with no overlap applied.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.split(text, c.separators)
}

func (c *Chunker) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var splits []string
	if separator == "" {
		for _, r := range text {
			splits = append(splits, string(r))
		}
	} else {
		splits = strings.Split(text, separator)
	}

	var chunks []string
	var good []string
	for _, piece := range splits {
		if len(piece) < c.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, c.merge(good, separator)...)
			good = nil
		}
		if len(remaining) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, c.split(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, c.merge(good, separator)...)
	}

	return chunks
}

// merge joins small splits back together up to the target size. When a chunk
// is emitted, splits are dropped from the front of the window until at most
// overlap characters remain; those become the leading content of the next
// chunk.
func (c *Chunker) merge(splits []string, separator string) []string {
	sepLen := len(separator)

	var chunks []string
	var window []string
	total := 0

	joinLen := func(extra int) int {
		if len(window) > 0 {
			return extra + sepLen
		}
		return extra
	}

	for _, piece := range splits {
		pieceLen := len(piece)
		if total+joinLen(pieceLen) > c.size && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(window) > 0 && (total > c.overlap || (total+joinLen(pieceLen) > c.size && total > 0)) {
				head := len(window[0])
				if len(window) > 1 {
					head += sepLen
				}
				total -= head
				window = window[1:]
			}
		}
		total += joinLen(pieceLen)
		window = append(window, piece)
	}

	if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}
