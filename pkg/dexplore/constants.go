package dexplore

import "time"

// Exit codes for semantic error classification.
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to the catalog database
	ExitServiceError    = 12 // Metadata service failed or unreachable
	ExitUnauthorized    = 13 // Metadata service rejected credentials
)

const (
	// DefaultPageSize is the number of records requested per page.
	DefaultPageSize = 20

	// DefaultLocale is used when no locale is configured or negotiated.
	DefaultLocale = "en"

	// DefaultHTTPTimeout bounds a single metadata service request.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryInitialDelay is the initial delay before the first connect retry.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the maximum delay between connect retries.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the number of connect retries after the first attempt.
	DefaultRetryMaxAttempts = 3
)

// Message keys resolved through a Translator.
const (
	MsgTotal         = "msg.explore.ui.list.content.total"
	MsgTotalSearched = "msg.explore.ui.list.content.total.searched"
	MsgTypeEngine    = "msg.comm.th.ds"
	MsgTypeJDBC      = "msg.storage.li.db"
	MsgTypeStageDB   = "msg.storage.li.hive"

	MsgEmpty   = "msg.explore.ui.list.empty"
	MsgLoading = "msg.explore.ui.list.loading"
	MsgPage    = "msg.explore.ui.list.page"
	MsgCatalog = "msg.explore.ui.list.catalog"
	MsgTag     = "msg.explore.ui.list.tag"
)

// MessageKey returns the key of the range's display label.
func (r SearchRange) MessageKey() string {
	switch r {
	case SearchRangeDataName:
		return "msg.explore.ui.search.range.name"
	case SearchRangeDescription:
		return "msg.explore.ui.search.range.description"
	case SearchRangeCreator:
		return "msg.explore.ui.search.range.creator"
	default:
		return "msg.explore.ui.search.range.all"
	}
}
