// Package logging provides concrete implementations of the dexplore.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: zerolog console output on stderr, verbose lines at debug level
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
