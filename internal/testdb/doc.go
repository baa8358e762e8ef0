// Package testdb connects integration tests to a disposable PostgreSQL
// database. Tests that need one are skipped when KINETIC_TEST_DATABASE_URL
// is unset, so the default test run needs no external services.
package testdb
