package core

import (
	"context"

	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/table"
)

// LoadFunc is the whole-file load operation of a connector.
type LoadFunc func(ctx context.Context) (*table.Table, error)

// ValidateChunkSize rejects non-positive chunk sizes.
func ValidateChunkSize(chunkSize int) error {
	if chunkSize <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "chunk size must be positive, got %d", chunkSize)
	}
	return nil
}

// SingleChunk returns the default chunk iterator for variants without
// native chunked reads: the whole load is materialized lazily on the
// first Next and yielded as one chunk.
func SingleChunk(load LoadFunc) ChunkIterator {
	return &singleChunkIterator{load: load}
}

type singleChunkIterator struct {
	load  LoadFunc
	chunk *table.Table
	done  bool
	err   error
}

func (it *singleChunkIterator) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}
	it.done = true

	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}

	t, err := it.load(ctx)
	if err != nil {
		it.err = err
		return false
	}
	it.chunk = t
	return true
}

func (it *singleChunkIterator) Chunk() *table.Table {
	return it.chunk
}

func (it *singleChunkIterator) Err() error {
	return it.err
}

func (it *singleChunkIterator) Close() error {
	it.done = true
	return nil
}

// Collect drains a chunk iterator into one concatenated table. The
// iterator is closed before returning.
func Collect(ctx context.Context, it ChunkIterator) (*table.Table, error) {
	defer it.Close()

	var chunks []*table.Table
	for it.Next(ctx) {
		chunks = append(chunks, it.Chunk())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return table.Concat(chunks...), nil
}
