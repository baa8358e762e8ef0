// Package service holds the use cases behind the HTTP API: driving quiz
// sessions, evaluating formula displays, and handing learner interactions
// to the background writer. Services depend on store interfaces and the
// slide catalog, never on a concrete backend.
package service
