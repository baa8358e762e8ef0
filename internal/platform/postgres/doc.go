// Package postgres implements the interaction and task stores on
// PostgreSQL through database/sql and the pgx driver, and carries the
// schema as goose migrations embedded in the binary.
package postgres
