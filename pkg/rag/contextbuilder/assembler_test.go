package contextbuilder

import (
	"strings"
	"testing"

	"ai-docchat-be/pkg/rag/retriever"

	"github.com/stretchr/testify/assert"
)

func docResult(content, title string) retriever.RetrievalResult {
	return retriever.RetrievalResult{
		Content: content,
		Origin:  retriever.OriginDocumentChunk,
		Source:  title,
		Score:   0.9,
	}
}

func webResult(content, url string) retriever.RetrievalResult {
	return retriever.RetrievalResult{
		Content: content,
		Origin:  retriever.OriginWebPage,
		Source:  url,
		Score:   1.0,
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	block := NewAssembler(0).Assemble(nil)

	assert.True(t, block.Empty())
	assert.Equal(t, "", block.Text)
	assert.Empty(t, block.Sources)
}

func TestAssembleDocumentsOnly(t *testing.T) {
	block := NewAssembler(0).Assemble([]retriever.RetrievalResult{
		docResult("first chunk", "Report A"),
		docResult("second chunk", "Report B"),
	})

	want := "Document Context:\nfirst chunk\n---\nsecond chunk"
	assert.Equal(t, want, block.Text)
	assert.Equal(t, []string{"Report A", "Report B"}, block.Sources)
}

func TestAssembleDocumentsBeforeWeb(t *testing.T) {
	// Web results interleaved in the input must still land in their own
	// section, after all document content.
	block := NewAssembler(0).Assemble([]retriever.RetrievalResult{
		webResult("web snippet", "https://example.com/a"),
		docResult("doc chunk", "Report A"),
	})

	want := "Document Context:\ndoc chunk\n\nWeb Search Context:\nweb snippet"
	assert.Equal(t, want, block.Text)
}

func TestAssembleDeduplicatesSources(t *testing.T) {
	block := NewAssembler(0).Assemble([]retriever.RetrievalResult{
		docResult("a", "Report A"),
		docResult("b", "Report A"),
		docResult("c", "report a"), // case sensitive, distinct
	})

	assert.Equal(t, []string{"Report A", "report a"}, block.Sources)
}

func TestAssembleBudgetDropsWholeItems(t *testing.T) {
	long := strings.Repeat("x", 40)

	// Header "Document Context:\n" is 18 chars, so one 40-char item fits a
	// 60-char budget and the second (40 + separator) does not.
	block := NewAssembler(60).Assemble([]retriever.RetrievalResult{
		docResult(long, "Report A"),
		docResult(long, "Report B"),
	})

	assert.Equal(t, "Document Context:\n"+long, block.Text)
	assert.NotContains(t, block.Text, "---")
	assert.Equal(t, []string{"Report A"}, block.Sources)
}

func TestAssembleBudgetSkipsLaterSection(t *testing.T) {
	long := strings.Repeat("x", 40)

	block := NewAssembler(60).Assemble([]retriever.RetrievalResult{
		docResult(long, "Report A"),
		webResult("snippet", "https://example.com/a"),
	})

	assert.Equal(t, "Document Context:\n"+long, block.Text)
	assert.NotContains(t, block.Text, "Web Search Context")
	assert.Equal(t, []string{"Report A"}, block.Sources)
}

func TestAssembleBudgetCountsRunes(t *testing.T) {
	// 10 runes, 30 bytes. A 30-char budget must admit both item and header.
	multibyte := strings.Repeat("世", 10)

	block := NewAssembler(28).Assemble([]retriever.RetrievalResult{
		docResult(multibyte, "Report A"),
	})

	assert.Equal(t, "Document Context:\n"+multibyte, block.Text)
}

func TestAssembleTooSmallBudgetYieldsEmptyBlock(t *testing.T) {
	block := NewAssembler(5).Assemble([]retriever.RetrievalResult{
		docResult("content that cannot fit", "Report A"),
	})

	assert.True(t, block.Empty())
	assert.Empty(t, block.Sources)
}

func TestAssembleSkipsBlankSource(t *testing.T) {
	block := NewAssembler(0).Assemble([]retriever.RetrievalResult{
		docResult("chunk", ""),
		docResult("other", "Report A"),
	})

	assert.Equal(t, []string{"Report A"}, block.Sources)
}
