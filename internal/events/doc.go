// Package events decouples request handling from background work.
//
// Services emit a TaskRequestEvent describing work to be done; handlers
// registered with an EventEmitter turn it into a task. The package has no
// dependency on the task package so both sides can import it.
package events
