package apperror

import (
	"errors"
	"fmt"
)

// ProviderError signals a failure of an external AI/search provider
// (network, auth, quota, malformed response). It is potentially transient:
// callers may retry, the core never does.
type ProviderError struct {
	Provider string // "gemini", "ollama", "groq", "google-search"
	Op       string // "embed", "search", "generate"
	Err      error
}

func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StorageError signals a persistence-layer failure (connection, constraint
// violation, missing parent row). Always fatal to the current operation.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError signals an embedding vector whose length does not
// match the configured store dimension. The insert/query must abort rather
// than silently truncate or pad.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// ValidationError signals invalid caller input. Permanent: never retried.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UnauthorizedError signals an attempted tenant-scope violation.
type UnauthorizedError struct {
	Message string
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// Kind helpers so callers can branch without type assertions everywhere.

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func IsDimensionMismatch(err error) bool {
	var de *DimensionMismatchError
	return errors.As(err, &de)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsUnauthorizedError(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}
