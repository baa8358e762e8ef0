// Package store defines the persistence interfaces for interactions and
// live quiz sessions, along with the errors every implementation returns.
// Implementations live under internal/platform.
package store
