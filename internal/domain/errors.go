package domain

import "errors"

var (
	// ErrEmptyQuery signals a query with no text.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrVectorDimMismatch signals an embedding dimension mismatch between
	// a query or inserted vector and the store. This is a configuration bug,
	// not a runtime condition to retry.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrNoText signals an upload from which no text could be extracted.
	ErrNoText = errors.New("no extractable text")
	// ErrUploadTooLarge signals an upload over the configured size limit.
	ErrUploadTooLarge = errors.New("upload too large")
	// ErrUnsupportedFileType signals an upload of an unsupported content type.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
