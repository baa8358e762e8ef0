// Package task runs background work outside the request path. Tasks are
// persisted before they are queued so that work interrupted by a restart is
// picked up again: Recover rebuilds stored tasks through a Registry keyed
// by task type.
package task
