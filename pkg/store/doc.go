// Package store provides the key/value persistence collaborator for grid
// workspaces.
//
// # Overview
//
// The engine state is saved as a handful of text values under per-workspace
// keys (see [Keyer]). Every backend implements the same small [Store]
// interface:
//
//	Get(ctx, key) (value, found, err)
//	Set(ctx, key, value)
//	Delete(ctx, key)
//	Close()
//
// A missing key is reported as found == false with a nil error, never as an
// error.
//
// # Backends
//
//   - [MemoryStore]: process-local map, used by tests and `serve` without a backend
//   - [NullStore]: discards writes, used by --no-store
//   - [DiskStore]: one file per key under a directory, backed by diskv
//   - [SQLiteStore]: a single-table SQLite database (pure Go driver)
//   - [RedisStore]: Redis strings, for shared multi-instance deployments
//   - [MongoStore]: one document per key in a MongoDB collection
//
// [Open] selects a backend from a [Config].
//
// # Errors
//
// Backend failures are returned as errors with code
// [github.com/matzehuels/blockgrid/pkg/errors.ErrCodeStore]. The network
// backends retry transient failures with [RetryWithBackoff].
package store
