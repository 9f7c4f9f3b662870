package dexplore

import "context"

// MetadataService fetches pages of metadata records.
// A successful result with no embedded records is an empty page, not an error.
type MetadataService interface {
	GetMetadataList(ctx context.Context, params ListParams) (*MetadataListResult, error)
}

// Translator resolves a message key to a localized string.
type Translator interface {
	// Instant formats the message for key with params substituted.
	Instant(key string, params map[string]string) string

	// FormatNumber renders n with the locale's grouping separators.
	FormatNumber(n int64) string
}

// SelectionStore exposes the shared explore view-model.
type SelectionStore interface {
	Snapshot() Selection
}

// LoadingIndicator is toggled around every list load.
type LoadingIndicator interface {
	Show()
	Hide()
}

// ExceptionReporter receives errors from failed list loads.
type ExceptionReporter interface {
	Report(err error)
}
