// Package core defines the connector contract shared by every format
// variant. A Connector wraps one configured source file and exposes two
// operations: a whole-file load into a table, and a lazy pull-based
// sequence of table chunks.
package core

import (
	"context"

	"github.com/dataforge-io/tabconnect/pkg/table"
)

// Connector is the interface all format variants implement.
//
// Implementations are stateless request/response over a fixed, read-only
// configuration: every Load or LoadChunks call opens its own resources
// and nothing is held open between calls. A Connector is therefore safe
// to reuse for any number of load calls.
type Connector interface {
	// Name returns the configured instance name.
	Name() string

	// Format returns the format identifier (e.g. "csv").
	Format() string

	// Load reads the complete tabular result for the configured source,
	// or fails with a typed error. Failures surface the underlying
	// reader error unmodified as the cause; there is no retry and no
	// partial result.
	Load(ctx context.Context) (*table.Table, error)

	// LoadChunks produces a lazy, finite, non-restartable sequence of
	// tables whose rows, concatenated in order, equal Load's rows.
	// chunkSize must be positive. Variants without native chunked reads
	// materialize the whole load and yield it as a single chunk.
	LoadChunks(ctx context.Context, chunkSize int) (ChunkIterator, error)

	// SupportsChunking reports whether LoadChunks streams fixed-size row
	// batches natively rather than falling back to the single-chunk
	// default.
	SupportsChunking() bool
}

// ChunkIterator is a pull-based iterator over table chunks. Usage
// follows the bufio.Scanner shape:
//
//	it, err := conn.LoadChunks(ctx, 1000)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next(ctx) {
//	    process(it.Chunk())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Each chunk is produced on demand by Next; there is no background work
// and no buffering beyond the underlying reader's own read-ahead. The
// sequence is finite and cannot be restarted.
type ChunkIterator interface {
	// Next advances to the next chunk. It returns false when the
	// sequence is exhausted or an error occurred; Err distinguishes the
	// two.
	Next(ctx context.Context) bool

	// Chunk returns the current chunk. Valid only after a true Next.
	Chunk() *table.Table

	// Err returns the first error encountered, if any.
	Err() error

	// Close releases resources held by the iterator. It is safe to call
	// Close multiple times and before the sequence is exhausted.
	Close() error
}
