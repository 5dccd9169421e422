package contextbuilder

import (
	"strings"

	"ai-docchat-be/pkg/rag/retriever"
)

// DefaultMaxChars bounds the assembled context handed to the generator.
const DefaultMaxChars = 30000

const (
	documentSectionLabel = "Document Context"
	webSectionLabel      = "Web Search Context"
	itemSeparator        = "\n---\n"
)

// ContextBlock is the bounded, labeled context for the answer generator plus
// the deduplicated list of source labels. Built once per question, then
// discarded. An empty block means "insufficient information", not an error.
type ContextBlock struct {
	Text    string
	Sources []string
}

func (b *ContextBlock) Empty() bool {
	return b.Text == ""
}

// Assembler merges retrieval results into one context block.
type Assembler struct {
	maxChars int
}

func NewAssembler(maxChars int) *Assembler {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Assembler{maxChars: maxChars}
}

// Assemble groups results by origin under labeled sections, preserving input
// order within each group. Once the character budget would be exceeded,
// trailing items are dropped wholesale; an item is never split mid-content.
// Source labels are deduplicated case-sensitively, in first-seen order.
func (a *Assembler) Assemble(results []retriever.RetrievalResult) *ContextBlock {
	if len(results) == 0 {
		return &ContextBlock{Sources: []string{}}
	}

	var docResults, webResults []retriever.RetrievalResult
	for _, res := range results {
		if res.Origin == retriever.OriginWebPage {
			webResults = append(webResults, res)
		} else {
			docResults = append(docResults, res)
		}
	}

	var sb strings.Builder
	sources := make([]string, 0, len(results))
	seenSources := make(map[string]bool)
	total := 0
	budgetExceeded := false

	writeSection := func(label string, items []retriever.RetrievalResult) {
		if len(items) == 0 || budgetExceeded {
			return
		}

		header := label + ":\n"
		if total > 0 {
			header = "\n\n" + header
		}

		wroteHeader := false
		for _, item := range items {
			cost := runeLen(item.Content)
			if wroteHeader {
				cost += runeLen(itemSeparator)
			} else {
				cost += runeLen(header)
			}

			if total+cost > a.maxChars {
				budgetExceeded = true
				return
			}

			if wroteHeader {
				sb.WriteString(itemSeparator)
			} else {
				sb.WriteString(header)
				wroteHeader = true
			}
			sb.WriteString(item.Content)
			total += cost

			if item.Source != "" && !seenSources[item.Source] {
				seenSources[item.Source] = true
				sources = append(sources, item.Source)
			}
		}
	}

	writeSection(documentSectionLabel, docResults)
	writeSection(webSectionLabel, webResults)

	return &ContextBlock{
		Text:    sb.String(),
		Sources: sources,
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}
