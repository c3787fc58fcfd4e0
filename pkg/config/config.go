// Package config provides the unified configuration system for
// tabconnect connectors. One Config structure describes a single data
// source: the format to read, the file path, the format-specific
// sections, and an opaque passthrough options map forwarded verbatim to
// the underlying reader.
//
// Example usage:
//
//	cfg := config.New("orders", "csv", "/data/orders.csv")
//	cfg.CSV.Delimiter = ";"
//	cfg.CSV.ParseDates = []string{"created_at"}
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/dataforge-io/tabconnect/pkg/errors"
)

// Config describes one configured data source. It is read-only after
// construction; connectors hold a pointer to it and never mutate it.
type Config struct {
	// Name identifies the connector instance
	Name string `yaml:"name" json:"name"`
	// Format selects the connector variant (e.g. "csv", "excel", "json")
	Format string `yaml:"format" json:"format"`
	// Path is the location of the source file
	Path string `yaml:"path" json:"path"`

	// CSV settings apply to the csv format
	CSV CSVConfig `yaml:"csv" json:"csv"`

	// Excel settings apply to the excel format
	Excel ExcelConfig `yaml:"excel" json:"excel"`

	// JSON settings apply to the json format
	JSON JSONConfig `yaml:"json" json:"json"`

	// Options are passthrough reader options forwarded opaquely to the
	// underlying format reader. This layer performs no validation beyond
	// type checks at the point of use.
	Options Options `yaml:"options" json:"options"`
}

// CSVConfig contains CSV reader settings.
type CSVConfig struct {
	// Delimiter separates fields; defaults to ","
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// Encoding is the IANA charset name of the file; defaults to UTF-8
	Encoding string `yaml:"encoding" json:"encoding"`
	// ParseDates lists columns whose values are parsed as timestamps
	ParseDates []string `yaml:"parse_dates" json:"parse_dates"`
}

// ExcelConfig contains Excel reader settings.
type ExcelConfig struct {
	// Sheet selects a single sheet by name; empty means the first sheet
	Sheet string `yaml:"sheet" json:"sheet"`
	// Sheets selects multiple sheets by name, concatenated in list order
	Sheets []string `yaml:"sheets" json:"sheets"`
	// AllSheets selects every sheet in workbook order
	AllSheets bool `yaml:"all_sheets" json:"all_sheets"`
	// DropUnnamed drops synthetic unnamed columns; defaults to true
	DropUnnamed *bool `yaml:"drop_unnamed" json:"drop_unnamed"`
	// UnnamedPrefix is the name prefix identifying unnamed columns
	UnnamedPrefix string `yaml:"unnamed_prefix" json:"unnamed_prefix"`
}

// JSONConfig contains JSON reader settings.
type JSONConfig struct {
	// Orient is the record orientation hint; defaults to "records"
	Orient string `yaml:"orient" json:"orient"`
	// Lines enables line-delimited (JSONL) mode
	Lines bool `yaml:"lines" json:"lines"`
}

// Options is an opaque string-keyed option map forwarded to the
// underlying reader. Typed accessors fail with an option error when a
// present value has the wrong type; absent keys return the default.
type Options map[string]interface{}

// New creates a Config for the given source with defaults applied.
func New(name, format, path string) *Config {
	cfg := &Config{
		Name:   name,
		Format: format,
		Path:   path,
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.CSV.Delimiter == "" {
		c.CSV.Delimiter = ","
	}
	if c.CSV.Encoding == "" {
		c.CSV.Encoding = "utf-8"
	}
	if c.Excel.DropUnnamed == nil {
		v := true
		c.Excel.DropUnnamed = &v
	}
	if c.Excel.UnnamedPrefix == "" {
		c.Excel.UnnamedPrefix = "Unnamed"
	}
	if c.JSON.Orient == "" {
		c.JSON.Orient = "records"
	}
	if c.Options == nil {
		c.Options = Options{}
	}
}

// Validate checks that the configuration identifies a loadable source.
func (c *Config) Validate() error {
	if c.Format == "" {
		return errors.New(errors.ErrorTypeConfig, "format is required")
	}
	if c.Path == "" {
		return errors.New(errors.ErrorTypeConfig, "path is required")
	}
	return nil
}

// String returns the string option for key, or def when absent.
func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, errors.Newf(errors.ErrorTypeOption, "option %q must be a string, got %T", key, v)
	}
	return s, nil
}

// Bool returns the boolean option for key, or def when absent.
func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, errors.Newf(errors.ErrorTypeOption, "option %q must be a bool, got %T", key, v)
	}
	return b, nil
}

// Int returns the integer option for key, or def when absent. YAML and
// JSON decoders produce different integer widths, so the usual numeric
// types are accepted.
func (o Options) Int(key string, def int) (int, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return def, errors.Newf(errors.ErrorTypeOption, "option %q must be an integer, got %T", key, v)
	}
}

// StringSlice returns the string-list option for key, or def when absent.
func (o Options) StringSlice(key string, def []string) ([]string, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	switch s := v.(type) {
	case []string:
		return s, nil
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return def, errors.Newf(errors.ErrorTypeOption, "option %q must contain strings, got %T", key, item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return def, errors.Newf(errors.ErrorTypeOption, "option %q must be a string list, got %T", key, v)
	}
}

// Rune returns the single-character option for key, or def when absent.
func (o Options) Rune(key string, def rune) (rune, error) {
	s, err := o.String(key, "")
	if err != nil {
		return def, err
	}
	if s == "" {
		return def, nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return def, errors.Newf(errors.ErrorTypeOption, "option %q must be a single character, got %q", key, s)
	}
	return runes[0], nil
}
