package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrStoreUnavailable     = errors.New("vector store unavailable")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrConfiguration        = errors.New("configuration error")
	ErrTemporary            = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
