package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerShortTextSingleChunk(t *testing.T) {
	chunker := NewChunker(500, 80)

	chunks := chunker.Split("El pago de la tasa municipal vence el dia 10 de cada mes.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "El pago de la tasa municipal vence el dia 10 de cada mes.", chunks[0])
}

func TestChunkerEmptyText(t *testing.T) {
	chunker := NewChunker(500, 80)

	assert.Nil(t, chunker.Split(""))
	assert.Nil(t, chunker.Split("  \n\n  "))
}

func TestChunkerWordWindowWithOverlap(t *testing.T) {
	chunker := NewChunker(10, 3)

	chunks := chunker.Split("aa bb cc dd ee")

	assert.Equal(t, []string{"aa bb cc", "cc dd ee"}, chunks)
}

func TestChunkerOversizedTextProducesBoundedChunks(t *testing.T) {
	// 500 words of 7 chars each, ~4000 chars in one paragraph
	words := make([]string, 500)
	for i := range words {
		words[i] = fmt.Sprintf("pal%04d", i)
	}
	text := strings.Join(words, " ")

	chunker := NewChunker(3000, 350)
	chunks := chunker.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 3000)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}

	// No content lost: every word appears in some chunk
	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, words[0])
	assert.Contains(t, joined, words[250])
	assert.Contains(t, joined, words[499])
}

func TestChunkerConsecutiveChunksOverlap(t *testing.T) {
	words := make([]string, 300)
	for i := range words {
		words[i] = fmt.Sprintf("pal%04d", i)
	}
	text := strings.Join(words, " ")

	chunker := NewChunker(500, 80)
	chunks := chunker.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)

	// Words are globally unique, so the tail word of each chunk reappearing in
	// the next one can only come from the overlap window.
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		assert.Contains(t, chunks[i], prevWords[len(prevWords)-1],
			"chunk %d should repeat the tail of chunk %d", i, i-1)
	}
}

func TestChunkerParagraphBoundariesPreferred(t *testing.T) {
	chunker := NewChunker(100, 0)

	text := "Primer parrafo sobre tasas municipales.\n\nSegundo parrafo sobre el procedimiento de pago.\n\nTercer parrafo sobre reclamos."
	chunks := chunker.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	// Paragraphs are not split internally when they fit the target size
	for _, chunk := range chunks {
		for _, paragraph := range strings.Split(chunk, "\n\n") {
			assert.Contains(t, text, paragraph)
		}
	}
}

func TestChunkerDeterministic(t *testing.T) {
	words := make([]string, 400)
	for i := range words {
		words[i] = fmt.Sprintf("termino%d", i)
	}
	text := strings.Join(words, " ")

	for _, profile := range []struct{ size, overlap int }{{3000, 350}, {500, 80}} {
		chunker := NewChunker(profile.size, profile.overlap)
		first := chunker.Split(text)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, chunker.Split(text))
		}
	}
}

func TestChunkerInvalidParamsFallBack(t *testing.T) {
	// overlap >= size is ignored rather than looping forever
	chunker := NewChunker(10, 50)
	chunks := chunker.Split("aa bb cc dd ee ff gg hh")
	assert.NotEmpty(t, chunks)

	chunker = NewChunker(0, 0)
	chunks = chunker.Split("texto corto")
	assert.Equal(t, []string{"texto corto"}, chunks)
}
