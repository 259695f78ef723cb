// Package sqlite provides the SQLite-backed state store adapter.
//
// Record and manifest writes for a file are committed in a single
// transaction, which is what makes an interrupted run resumable: the
// library state can hold fully processed files and nothing in between.
package sqlite
