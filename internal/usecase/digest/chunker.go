package digest

import (
	"strings"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/utils/text"
)

const (
	// DefaultMaxChunkSize is the default chunk bound in characters.
	DefaultMaxChunkSize = 512

	// sentenceDelimiter is the naive sentence boundary: a period followed by one space.
	// Abbreviations and decimals are mis-split; this is accepted behavior.
	sentenceDelimiter = ". "

	// chunkTerminator is appended to every closed chunk, even when the last
	// sentence already ends with a period ("C." becomes "C..").
	chunkTerminator = "."
)

// Chunk splits text into sentence-aligned chunks of at most maxChunkSize characters.
//
// Sentences are packed greedily in order. The running length counts the chunk exactly
// as it is emitted: sentence lengths, the ". " joiners and the closing period. A single
// sentence longer than the bound is never cut; it becomes its own oversized chunk.
// Empty or whitespace-only text yields no chunks. A non-positive maxChunkSize falls
// back to DefaultMaxChunkSize.
func Chunk(raw string, maxChunkSize int) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	var (
		chunks     []string
		current    []string
		currentLen int
	)

	for _, sentence := range strings.Split(raw, sentenceDelimiter) {
		n := text.CountRunes(sentence)

		if len(current) == 0 {
			current = append(current, sentence)
			currentLen = n + len(chunkTerminator)
			continue
		}

		next := currentLen + len(sentenceDelimiter) + n
		if next <= maxChunkSize {
			current = append(current, sentence)
			currentLen = next
			continue
		}

		chunks = append(chunks, closeChunk(current))
		current = []string{sentence}
		currentLen = n + len(chunkTerminator)
	}

	if len(current) > 0 {
		chunks = append(chunks, closeChunk(current))
	}
	return chunks
}

func closeChunk(sentences []string) string {
	return strings.Join(sentences, sentenceDelimiter) + chunkTerminator
}

// Sentences recovers the sentence candidates packed into a chunk produced by Chunk.
func Sentences(chunk string) []string {
	body := strings.TrimSuffix(chunk, chunkTerminator)
	return strings.Split(body, sentenceDelimiter)
}

// Chunker produces entity chunks with a fixed bound.
type Chunker struct {
	MaxChunkSize int
}

// NewChunker returns a Chunker; a non-positive size selects DefaultMaxChunkSize.
func NewChunker(maxChunkSize int) Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return Chunker{MaxChunkSize: maxChunkSize}
}

// Split chunks raw text and indexes the result in emission order.
func (c Chunker) Split(raw string) []entity.Chunk {
	texts := Chunk(raw, c.MaxChunkSize)
	if len(texts) == 0 {
		return nil
	}
	chunks := make([]entity.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = entity.Chunk{Index: i, Text: t}
	}
	return chunks
}
