// Package redis implements store.SessionStore on Redis so quiz sessions can
// be shared by several API instances. Sessions are stored as JSON under a
// per-session key whose TTL is refreshed on every access.
package redis
