package utils

import (
	"ai-docchat-be/pkg/apperror"
)

// SplitText splits text into contiguous, non-overlapping chunks of at most
// chunkSize characters, preserving order and exact content. Concatenating
// the result reproduces the input. The final chunk may be shorter.
// Counted in runes so multi-byte content never splits mid-character.
func SplitText(text string, chunkSize int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, apperror.NewValidationError("chunk size must be positive, got %d", chunkSize)
	}

	if text == "" {
		return []string{}, nil
	}

	runes := []rune(text)
	totalLen := len(runes)

	chunks := make([]string, 0, (totalLen+chunkSize-1)/chunkSize)
	for i := 0; i < totalLen; i += chunkSize {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, string(runes[i:end]))
	}

	return chunks, nil
}
