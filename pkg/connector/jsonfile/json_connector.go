// Package jsonfile implements the JSON connector variant. Two modes are
// selected by the lines flag: line-delimited JSON (one value per line,
// parsed as rows with an orientation hint) and whole-document JSON
// (decoded as one value, then flattened into flat columns with dotted
// and indexed naming).
package jsonfile

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/dataforge-io/tabconnect/internal/fileio"
	"github.com/dataforge-io/tabconnect/pkg/config"
	"github.com/dataforge-io/tabconnect/pkg/connector/core"
	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/flatten"
	"github.com/dataforge-io/tabconnect/pkg/logger"
	"github.com/dataforge-io/tabconnect/pkg/table"
)

// Orient is the record orientation hint for line-delimited mode.
type Orient string

const (
	// OrientRecords parses each value as an object of column to value
	OrientRecords Orient = "records"
	// OrientValues parses each value as an array with positional columns
	OrientValues Orient = "values"
)

// Connector reads JSON and JSONL files into tables.
type Connector struct {
	cfg    *config.Config
	logger *zap.Logger

	orient     Orient
	lines      bool
	sep        string
	recordPath []string
}

// New creates a JSON connector from the given configuration.
func New(cfg *config.Config) (core.Connector, error) {
	orient := Orient(cfg.JSON.Orient)
	switch orient {
	case OrientRecords, OrientValues:
	default:
		return nil, errors.Newf(errors.ErrorTypeOption, "unsupported orient %q", cfg.JSON.Orient)
	}
	// Document mode normalizes objects only; positional columns exist
	// just for line-delimited input.
	if orient == OrientValues && !cfg.JSON.Lines {
		return nil, errors.New(errors.ErrorTypeCapability, "values orientation requires line-delimited mode")
	}

	sep, err := cfg.Options.String("sep", ".")
	if err != nil {
		return nil, err
	}
	recordPath, err := cfg.Options.StringSlice("record_path", nil)
	if err != nil {
		return nil, err
	}

	return &Connector{
		cfg:        cfg,
		logger:     logger.With(zap.String("connector", cfg.Name), zap.String("format", "json")),
		orient:     orient,
		lines:      cfg.JSON.Lines,
		sep:        sep,
		recordPath: recordPath,
	}, nil
}

// Name returns the configured instance name.
func (c *Connector) Name() string { return c.cfg.Name }

// Format returns "json".
func (c *Connector) Format() string { return "json" }

// SupportsChunking returns false: both modes materialize the decoded
// document, so chunked loads fall back to the single-chunk default.
func (c *Connector) SupportsChunking() bool { return false }

// Load reads the file in the configured mode. Invalid JSON fails with a
// parse error and no partial table is returned.
func (c *Connector) Load(ctx context.Context) (*table.Table, error) {
	rc, err := fileio.Open(c.cfg.Path, "")
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var t *table.Table
	if c.lines {
		t, err = c.loadLines(ctx, rc)
	} else {
		t, err = c.loadDocument(rc)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("json load complete",
		zap.String("path", c.cfg.Path),
		zap.Bool("lines", c.lines),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()))
	return t, nil
}

// LoadChunks yields the whole load as a single chunk.
func (c *Connector) LoadChunks(ctx context.Context, chunkSize int) (core.ChunkIterator, error) {
	if err := core.ValidateChunkSize(chunkSize); err != nil {
		return nil, err
	}
	return core.SingleChunk(c.Load), nil
}

// loadLines parses one JSON value per line. Blank lines are skipped;
// any line that is not a single valid JSON value is a parse error.
func (c *Connector) loadLines(ctx context.Context, r io.Reader) (*table.Table, error) {
	t := table.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var value interface{}
		if err := gojson.Unmarshal(line, &value); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "invalid JSON on line "+strconv.Itoa(lineNum)).
				WithDetail("path", c.cfg.Path)
		}

		if err := c.appendLineValue(t, value, lineNum); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read lines").
			WithDetail("path", c.cfg.Path)
	}

	return t, nil
}

// appendLineValue appends one parsed line as a row per the orientation.
func (c *Connector) appendLineValue(t *table.Table, value interface{}, lineNum int) error {
	switch c.orient {
	case OrientRecords:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return errors.Newf(errors.ErrorTypeParse,
				"line %d is not a JSON object (got %T)", lineNum, value)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t.AppendRecord(obj, keys)
	case OrientValues:
		arr, ok := value.([]interface{})
		if !ok {
			return errors.Newf(errors.ErrorTypeParse,
				"line %d is not a JSON array (got %T)", lineNum, value)
		}
		record := make(map[string]interface{}, len(arr))
		order := make([]string, len(arr))
		for i, v := range arr {
			name := strconv.Itoa(i)
			record[name] = v
			order[i] = name
		}
		t.AppendRecord(record, order)
	}
	return nil
}

// loadDocument decodes the whole file as one JSON value and flattens
// nested structure into flat columns.
func (c *Connector) loadDocument(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read document").
			WithDetail("path", c.cfg.Path)
	}

	var value interface{}
	if err := gojson.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "invalid JSON document").
			WithDetail("path", c.cfg.Path)
	}

	records, order, err := flatten.Flatten(value, flatten.Options{
		Sep:        c.sep,
		RecordPath: c.recordPath,
	})
	if err != nil {
		return nil, err
	}

	t := table.New(order...)
	for _, record := range records {
		t.AppendRecord(record, order)
	}
	return t, nil
}
