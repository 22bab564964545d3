// Package sqlite provides a local document store backed by modernc.org/sqlite,
// a pure Go SQLite implementation that requires no CGO.
//
// Collections and documents live in two tables. Document bodies are stored
// as JSON text; upserts merge top-level fields the way a $set update does.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
package sqlite
