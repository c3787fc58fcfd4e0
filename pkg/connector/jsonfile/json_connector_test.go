package jsonfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataforge-io/tabconnect/pkg/config"
	"github.com/dataforge-io/tabconnect/pkg/connector/core"
	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/testutil"
)

const fruitJSON = `{"fruit": "Apple", "size": "Large", "color": "Red"}`

func newConnector(t *testing.T, cfg *config.Config) core.Connector {
	t.Helper()
	conn, err := New(cfg)
	require.NoError(t, err)
	return conn
}

func TestLoadDocumentSingleObject(t *testing.T) {
	path := testutil.WriteFile(t, "example.json", fruitJSON)
	conn := newConnector(t, config.New("fruit", "json", path))

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
	assert.ElementsMatch(t, []string{"fruit", "size", "color"}, tbl.Columns())

	for col, want := range map[string]string{"fruit": "Apple", "size": "Large", "color": "Red"} {
		v, ok := tbl.Value(0, col)
		require.True(t, ok, col)
		assert.Equal(t, want, v)
	}
}

func TestLoadLinesMatchesDocument(t *testing.T) {
	docPath := testutil.WriteFile(t, "example.json", fruitJSON)
	linesPath := testutil.WriteFile(t, "example.jsonl", fruitJSON+"\n")

	docConn := newConnector(t, config.New("fruit", "json", docPath))

	linesCfg := config.New("fruit", "json", linesPath)
	linesCfg.JSON.Lines = true
	linesConn := newConnector(t, linesCfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	docTbl, err := docConn.Load(ctx)
	require.NoError(t, err)
	linesTbl, err := linesConn.Load(ctx)
	require.NoError(t, err)

	assert.True(t, docTbl.Equal(linesTbl))
}

func TestLoadLinesMultipleRecords(t *testing.T) {
	content := `{"name": "Ada", "age": 36}
{"name": "Grace", "age": 45}

{"name": "Edsger"}
`
	path := testutil.WriteFile(t, "people.jsonl", content)

	cfg := config.New("people", "json", path)
	cfg.JSON.Lines = true
	conn := newConnector(t, cfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)

	// Blank lines are skipped; missing fields are nil.
	assert.Equal(t, 3, tbl.NumRows())
	v, ok := tbl.Value(2, "age")
	require.True(t, ok)
	assert.Nil(t, v)

	v, ok = tbl.Value(1, "name")
	require.True(t, ok)
	assert.Equal(t, "Grace", v)
}

func TestLoadLinesValuesOrient(t *testing.T) {
	path := testutil.WriteFile(t, "points.jsonl", "[1, 2]\n[3, 4]\n")

	cfg := config.New("points", "json", path)
	cfg.JSON.Lines = true
	cfg.JSON.Orient = "values"
	conn := newConnector(t, cfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1"}, tbl.Columns())
	assert.Equal(t, []interface{}{3.0, 4.0}, tbl.Row(1))
}

func TestLoadLinesWrongShape(t *testing.T) {
	path := testutil.WriteFile(t, "bad.jsonl", "[1, 2]\n")

	cfg := config.New("bad", "json", path)
	cfg.JSON.Lines = true
	conn := newConnector(t, cfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	// records orient rejects array lines.
	_, err := conn.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestLoadDocumentArrayOfRecords(t *testing.T) {
	content := `[{"id": 1, "name": "Ada"}, {"id": 2, "name": "Grace"}]`
	path := testutil.WriteFile(t, "people.json", content)
	conn := newConnector(t, config.New("people", "json", path))

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	v, ok := tbl.Value(1, "name")
	require.True(t, ok)
	assert.Equal(t, "Grace", v)
}

func TestLoadDocumentFlattensNested(t *testing.T) {
	content := `{"id": 1, "address": {"city": "Riverside", "zip": "08075"}, "tags": ["a", "b"]}`
	path := testutil.WriteFile(t, "nested.json", content)
	conn := newConnector(t, config.New("nested", "json", path))

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"id", "address.city", "address.zip", "tags.0", "tags.1"},
		tbl.Columns())

	v, ok := tbl.Value(0, "address.city")
	require.True(t, ok)
	assert.Equal(t, "Riverside", v)
}

func TestLoadDocumentCustomSeparator(t *testing.T) {
	path := testutil.WriteFile(t, "nested.json", `{"a": {"b": "deep"}}`)

	cfg := config.New("nested", "json", path)
	cfg.Options = config.Options{"sep": "_"}
	conn := newConnector(t, cfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("a_b"))
}

func TestLoadDocumentRecordPath(t *testing.T) {
	content := `{"meta": {"count": 2}, "results": [{"x": 1}, {"x": 2}]}`
	path := testutil.WriteFile(t, "wrapped.json", content)

	cfg := config.New("wrapped", "json", path)
	cfg.Options = config.Options{"record_path": []string{"results"}}
	conn := newConnector(t, cfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"x"}, tbl.Columns())
}

func TestLoadMalformedDocument(t *testing.T) {
	path := testutil.WriteFile(t, "broken.json", `{"fruit": "Apple", `)
	conn := newConnector(t, config.New("broken", "json", path))

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
	// No partial table on failure.
	assert.Nil(t, tbl)
}

func TestLoadMalformedLine(t *testing.T) {
	path := testutil.WriteFile(t, "broken.jsonl", "{\"ok\": true}\nnot json at all{\n")

	cfg := config.New("broken", "json", path)
	cfg.JSON.Lines = true
	conn := newConnector(t, cfg)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := conn.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
	assert.Nil(t, tbl)
}

func TestLoadNotFound(t *testing.T) {
	conn := newConnector(t, config.New("missing", "json", filepath.Join(t.TempDir(), "missing.json")))

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	_, err := conn.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestLoadChunksSingleChunk(t *testing.T) {
	path := testutil.WriteFile(t, "example.json", fruitJSON)
	conn := newConnector(t, config.New("fruit", "json", path))

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	assert.False(t, conn.SupportsChunking())

	it, err := conn.LoadChunks(ctx, 100)
	require.NoError(t, err)

	collected, err := core.Collect(ctx, it)
	require.NoError(t, err)
	assert.Equal(t, 1, collected.NumRows())
}

func TestNewRejectsValuesOrientInDocumentMode(t *testing.T) {
	cfg := config.New("points", "json", "points.json")
	cfg.JSON.Orient = "values"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
}

func TestNewRejectsUnknownOrient(t *testing.T) {
	cfg := config.New("bad", "json", "data.json")
	cfg.JSON.Orient = "split"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOption))
}

func TestMetadata(t *testing.T) {
	conn := newConnector(t, config.New("fruit", "json", "example.json"))

	assert.Equal(t, "fruit", conn.Name())
	assert.Equal(t, "json", conn.Format())
}
