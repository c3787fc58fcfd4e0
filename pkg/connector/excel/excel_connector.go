// Package excel implements the Excel connector variant on top of
// excelize. One sheet (default: the first), an explicit sheet list, or
// every sheet can be loaded; multiple sheets are concatenated in sheet
// order into one table. Columns without a header cell get a synthetic
// "Unnamed: N" name and are dropped by default.
package excel

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dataforge-io/tabconnect/pkg/config"
	"github.com/dataforge-io/tabconnect/pkg/connector/core"
	"github.com/dataforge-io/tabconnect/pkg/errors"
	"github.com/dataforge-io/tabconnect/pkg/logger"
	"github.com/dataforge-io/tabconnect/pkg/table"
)

// Connector reads Excel workbooks into tables.
type Connector struct {
	cfg    *config.Config
	logger *zap.Logger

	dropUnnamed   bool
	unnamedPrefix string
}

// New creates an Excel connector from the given configuration.
func New(cfg *config.Config) (core.Connector, error) {
	// The engine override exists for parity with readers that support
	// multiple spreadsheet engines; excelize is the only one here.
	engine, err := cfg.Options.String("engine", "excelize")
	if err != nil {
		return nil, err
	}
	if engine != "excelize" {
		return nil, errors.Newf(errors.ErrorTypeOption, "unsupported excel engine %q", engine)
	}

	dropUnnamed := true
	if cfg.Excel.DropUnnamed != nil {
		dropUnnamed = *cfg.Excel.DropUnnamed
	}
	prefix := cfg.Excel.UnnamedPrefix
	if prefix == "" {
		prefix = "Unnamed"
	}

	return &Connector{
		cfg:           cfg,
		logger:        logger.With(zap.String("connector", cfg.Name), zap.String("format", "excel")),
		dropUnnamed:   dropUnnamed,
		unnamedPrefix: prefix,
	}, nil
}

// Name returns the configured instance name.
func (c *Connector) Name() string { return c.cfg.Name }

// Format returns "excel".
func (c *Connector) Format() string { return "excel" }

// SupportsChunking returns false: the workbook reader materializes
// sheets, so chunked loads fall back to the single-chunk default.
func (c *Connector) SupportsChunking() bool { return false }

// Load reads the selected sheets and concatenates them in sheet order
// into one table, re-indexing rows sequentially. When drop_unnamed is
// set, columns whose synthetic name carries the unnamed prefix are
// removed after concatenation.
func (c *Connector) Load(ctx context.Context) (*table.Table, error) {
	f, err := c.openWorkbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets, err := c.selectSheets(f)
	if err != nil {
		return nil, err
	}

	tables := make([]*table.Table, 0, len(sheets))
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := c.sheetTable(f, sheet)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	result := table.Concat(tables...)
	if c.dropUnnamed {
		result = result.DropColumns(func(name string) bool {
			return strings.HasPrefix(name, c.unnamedPrefix)
		})
	}

	c.logger.Debug("excel load complete",
		zap.String("path", c.cfg.Path),
		zap.Strings("sheets", sheets),
		zap.Int("rows", result.NumRows()),
		zap.Int("columns", result.NumCols()))
	return result, nil
}

// LoadChunks yields the whole load as a single chunk.
func (c *Connector) LoadChunks(ctx context.Context, chunkSize int) (core.ChunkIterator, error) {
	if err := core.ValidateChunkSize(chunkSize); err != nil {
		return nil, err
	}
	return core.SingleChunk(c.Load), nil
}

func (c *Connector) openWorkbook() (*excelize.File, error) {
	f, err := excelize.OpenFile(c.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "source file not found").
				WithDetail("path", c.cfg.Path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to open workbook").
			WithDetail("path", c.cfg.Path)
	}
	return f, nil
}

// selectSheets resolves the configured sheet selector against the
// workbook, preserving workbook order for the all-sheets case and list
// order for an explicit selection.
func (c *Connector) selectSheets(f *excelize.File) ([]string, error) {
	all := f.GetSheetList()
	if len(all) == 0 {
		return nil, errors.New(errors.ErrorTypeParse, "workbook has no sheets")
	}

	switch {
	case c.cfg.Excel.AllSheets:
		return all, nil
	case len(c.cfg.Excel.Sheets) > 0:
		for _, sheet := range c.cfg.Excel.Sheets {
			if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
				return nil, errors.Newf(errors.ErrorTypeConfig, "sheet %q not found", sheet)
			}
		}
		return c.cfg.Excel.Sheets, nil
	case c.cfg.Excel.Sheet != "":
		if idx, err := f.GetSheetIndex(c.cfg.Excel.Sheet); err != nil || idx < 0 {
			return nil, errors.Newf(errors.ErrorTypeConfig, "sheet %q not found", c.cfg.Excel.Sheet)
		}
		return []string{c.cfg.Excel.Sheet}, nil
	default:
		return all[:1], nil
	}
}

// sheetTable reads one sheet. The first row is the header; blank header
// cells get synthetic names, and ragged data rows are padded with empty
// strings to the header width.
func (c *Connector) sheetTable(f *excelize.File, sheet string) (*table.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read sheet").
			WithDetail("sheet", sheet)
	}
	if len(rows) == 0 {
		return table.New(), nil
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	for i := 0; i < width; i++ {
		var cell string
		if i < len(rows[0]) {
			cell = strings.TrimSpace(rows[0][i])
		}
		if cell == "" {
			headers[i] = c.unnamedPrefix + ": " + strconv.Itoa(i)
		} else {
			headers[i] = cell
		}
	}

	t := table.New(table.UniqueColumns(headers)...)
	for _, row := range rows[1:] {
		values := make([]interface{}, width)
		for i := 0; i < width; i++ {
			if i < len(row) {
				values[i] = row[i]
			} else {
				values[i] = ""
			}
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}
