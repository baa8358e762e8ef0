// Package memory provides in-process implementations of store interfaces.
// They suit single-instance deployments and tests; state is lost on restart.
package memory
