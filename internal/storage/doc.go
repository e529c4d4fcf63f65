// Package storage provides the local key-value persistence layer for
// lexirecall. A Backend stores opaque values by string key (files on disk
// in production, memory in tests); the ContentStore layers the Words,
// Decks and Stories collections on top of it with schema migration on
// every read, cascade deletes, and full-store export/import.
//
// The store assumes a single writer per process. Concurrent writers from
// other processes are not coordinated; the last write wins.
package storage
