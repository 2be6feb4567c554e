// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and small
// survey fixtures for tests. It has no production callers.
package shared
