package entities

import "errors"

// Domain errors
var (
	ErrNilEntity           = errors.New("entity cannot be nil")
	ErrDocumentTooLarge    = errors.New("document exceeds maximum size")
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrInvalidSourceConfig = errors.New("knowledge source configuration is not a JSON object")
)
