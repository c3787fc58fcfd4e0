package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/table"
)

func TestValidateChunkSize(t *testing.T) {
	assert.NoError(t, ValidateChunkSize(1))
	assert.NoError(t, ValidateChunkSize(10_000))

	for _, size := range []int{0, -1} {
		err := ValidateChunkSize(size)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	}
}

func TestSingleChunkYieldsOnce(t *testing.T) {
	calls := 0
	load := func(ctx context.Context) (*table.Table, error) {
		calls++
		tbl := table.New("a")
		require.NoError(t, tbl.AppendRow("1"))
		return tbl, nil
	}

	it := SingleChunk(load)
	defer it.Close()

	ctx := context.Background()

	// The load is lazy: nothing happens until the first pull.
	assert.Equal(t, 0, calls)

	require.True(t, it.Next(ctx))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, it.Chunk().NumRows())

	assert.False(t, it.Next(ctx))
	assert.False(t, it.Next(ctx))
	assert.NoError(t, it.Err())
	assert.Equal(t, 1, calls)
}

func TestSingleChunkPropagatesLoadError(t *testing.T) {
	wantErr := errors.New(errors.ErrorTypeNotFound, "source file not found")
	it := SingleChunk(func(ctx context.Context) (*table.Table, error) {
		return nil, wantErr
	})
	defer it.Close()

	assert.False(t, it.Next(context.Background()))
	assert.Equal(t, wantErr, it.Err())
}

func TestSingleChunkHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := SingleChunk(func(ctx context.Context) (*table.Table, error) {
		t.Fatal("load must not run after cancellation")
		return nil, nil
	})
	defer it.Close()

	assert.False(t, it.Next(ctx))
	assert.ErrorIs(t, it.Err(), context.Canceled)
}

func TestCollect(t *testing.T) {
	tbl := table.New("n")
	require.NoError(t, tbl.AppendRow("1"))
	require.NoError(t, tbl.AppendRow("2"))

	it := SingleChunk(func(ctx context.Context) (*table.Table, error) {
		return tbl, nil
	})

	got, err := Collect(context.Background(), it)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))
}

func TestCollectPropagatesError(t *testing.T) {
	it := SingleChunk(func(ctx context.Context) (*table.Table, error) {
		return nil, errors.New(errors.ErrorTypeParse, "bad content")
	})

	_, err := Collect(context.Background(), it)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}
