// Package csv implements the CSV connector variant. It delegates to
// encoding/csv with a configurable delimiter, charset, and date-column
// parsing, and streams fixed-size row batches natively for chunked
// loads.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dataforge-io/tabconnect/internal/fileio"
	"github.com/dataforge-io/tabconnect/pkg/config"
	"github.com/dataforge-io/tabconnect/pkg/connector/core"
	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/logger"
	"github.com/dataforge-io/tabconnect/pkg/table"
)

// dateLayouts are tried in order for parse_dates columns.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// Connector reads CSV files into tables.
type Connector struct {
	cfg    *config.Config
	logger *zap.Logger

	delimiter        rune
	comment          rune
	lazyQuotes       bool
	trimLeadingSpace bool
	skipRows         int
	parseDates       map[string]bool
}

// New creates a CSV connector from the given configuration. Option
// errors (mistyped passthrough options, multi-character delimiter) are
// reported at construction time.
func New(cfg *config.Config) (core.Connector, error) {
	delim := []rune(cfg.CSV.Delimiter)
	if len(delim) != 1 {
		return nil, errors.Newf(errors.ErrorTypeOption,
			"delimiter must be a single character, got %q", cfg.CSV.Delimiter)
	}

	comment, err := cfg.Options.Rune("comment", 0)
	if err != nil {
		return nil, err
	}
	lazyQuotes, err := cfg.Options.Bool("lazy_quotes", false)
	if err != nil {
		return nil, err
	}
	trimLeadingSpace, err := cfg.Options.Bool("trim_leading_space", false)
	if err != nil {
		return nil, err
	}
	skipRows, err := cfg.Options.Int("skip_rows", 0)
	if err != nil {
		return nil, err
	}

	parseDates := make(map[string]bool, len(cfg.CSV.ParseDates))
	for _, col := range cfg.CSV.ParseDates {
		parseDates[col] = true
	}

	return &Connector{
		cfg:              cfg,
		logger:           logger.With(zap.String("connector", cfg.Name), zap.String("format", "csv")),
		delimiter:        delim[0],
		comment:          comment,
		lazyQuotes:       lazyQuotes,
		trimLeadingSpace: trimLeadingSpace,
		skipRows:         skipRows,
		parseDates:       parseDates,
	}, nil
}

// Name returns the configured instance name.
func (c *Connector) Name() string { return c.cfg.Name }

// Format returns "csv".
func (c *Connector) Format() string { return "csv" }

// SupportsChunking returns true: chunked loads stream row batches from
// the live reader without materializing the file.
func (c *Connector) SupportsChunking() bool { return true }

// Load reads the whole file into one table. The first row is the
// header; every data row must match its width.
func (c *Connector) Load(ctx context.Context) (*table.Table, error) {
	rc, reader, headers, err := c.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t := table.New(headers...)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "malformed CSV row").
				WithDetail("path", c.cfg.Path)
		}
		if err := t.AppendRow(c.rowValues(headers, row)...); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("csv load complete",
		zap.String("path", c.cfg.Path),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()))
	return t, nil
}

// LoadChunks streams batches of up to chunkSize rows. The file is
// opened and the header consumed here; rows are read on each pull.
func (c *Connector) LoadChunks(ctx context.Context, chunkSize int) (core.ChunkIterator, error) {
	if err := core.ValidateChunkSize(chunkSize); err != nil {
		return nil, err
	}

	rc, reader, headers, err := c.open()
	if err != nil {
		return nil, err
	}

	return &chunkIterator{
		conn:      c,
		rc:        rc,
		reader:    reader,
		headers:   headers,
		chunkSize: chunkSize,
	}, nil
}

// open opens the source and consumes skip rows plus the header row.
func (c *Connector) open() (io.ReadCloser, *stdcsv.Reader, []string, error) {
	rc, err := fileio.Open(c.cfg.Path, c.cfg.CSV.Encoding)
	if err != nil {
		return nil, nil, nil, err
	}

	reader := stdcsv.NewReader(rc)
	reader.Comma = c.delimiter
	reader.Comment = c.comment
	reader.LazyQuotes = c.lazyQuotes
	reader.TrimLeadingSpace = c.trimLeadingSpace
	reader.ReuseRecord = false
	// Width is enforced against the header below, not against skipped
	// leading rows.
	reader.FieldsPerRecord = -1

	for i := 0; i < c.skipRows; i++ {
		if _, err := reader.Read(); err != nil {
			_ = rc.Close()
			if err == io.EOF {
				return nil, nil, nil, errors.New(errors.ErrorTypeParse, "file ends before skipped rows")
			}
			return nil, nil, nil, errors.Wrap(err, errors.ErrorTypeParse, "malformed CSV row")
		}
	}

	headers, err := reader.Read()
	if err == io.EOF {
		// Empty file: a zero-column, zero-row table.
		return rc, reader, nil, nil
	}
	if err != nil {
		_ = rc.Close()
		return nil, nil, nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read CSV header")
	}

	// Every data row must match the header width.
	reader.FieldsPerRecord = len(headers)

	return rc, reader, table.UniqueColumns(headers), nil
}

// rowValues converts raw fields, parsing configured date columns.
func (c *Connector) rowValues(headers []string, row []string) []interface{} {
	values := make([]interface{}, len(row))
	for i, field := range row {
		if i < len(headers) && c.parseDates[headers[i]] {
			values[i] = parseDate(field)
		} else {
			values[i] = field
		}
	}
	return values
}

// parseDate tries the known layouts; an unparseable value stays a string.
func parseDate(value string) interface{} {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return value
}

// chunkIterator pulls fixed-size row batches from the live reader.
type chunkIterator struct {
	conn      *Connector
	rc        io.ReadCloser
	reader    *stdcsv.Reader
	headers   []string
	chunkSize int

	chunk  *table.Table
	err    error
	done   bool
	closed bool
}

func (it *chunkIterator) Next(ctx context.Context) bool {
	if it.done || it.err != nil || it.closed {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}

	t := table.New(it.headers...)
	for t.NumRows() < it.chunkSize {
		row, err := it.reader.Read()
		if err == io.EOF {
			it.done = true
			break
		}
		if err != nil {
			it.err = errors.Wrap(err, errors.ErrorTypeParse, "malformed CSV row").
				WithDetail("path", it.conn.cfg.Path)
			return false
		}
		if err := t.AppendRow(it.conn.rowValues(it.headers, row)...); err != nil {
			it.err = err
			return false
		}
	}

	if t.NumRows() == 0 {
		return false
	}
	it.chunk = t
	return true
}

func (it *chunkIterator) Chunk() *table.Table { return it.chunk }

func (it *chunkIterator) Err() error { return it.err }

func (it *chunkIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.rc.Close()
}
