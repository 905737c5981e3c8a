package config

import (
	"unicode/utf8"

	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// EngineConfig is the configuration of one engine session.
type EngineConfig struct {
	// Table controls row encoding and schema growth
	Table TableConfig `yaml:"table" json:"table"`

	// Format controls value rendering
	Format FormatConfig `yaml:"format" json:"format"`

	// Load controls how sources are read
	Load LoadConfig `yaml:"load" json:"load"`

	// Logging configures the global logger
	Logging logger.Config `yaml:"logging" json:"logging"`
}

// TableConfig contains row and schema settings.
type TableConfig struct {
	// RowKind selects the row encoding, e.g. double_array or double_sparse_array
	RowKind datarow.Kind `yaml:"row_kind" json:"row_kind"`

	// DecimalPoint is the single-character separator of numeric literals
	DecimalPoint string `yaml:"decimal_point" json:"decimal_point"`

	// ColumnIncrement is the spare capacity added when the schema outgrows the rows
	ColumnIncrement int `yaml:"column_increment" json:"column_increment"`
}

// FormatConfig contains rendering settings.
type FormatConfig struct {
	// FractionDigits for numerical values; -1 uses the default, -2 is unlimited
	FractionDigits int `yaml:"fraction_digits" json:"fraction_digits"`

	// QuoteNominal wraps nominal values in quotes
	QuoteNominal bool `yaml:"quote_nominal" json:"quote_nominal"`
}

// LoadConfig contains source reading settings.
type LoadConfig struct {
	// Permute inserts rows at random positions
	Permute bool `yaml:"permute" json:"permute"`

	// Seed for the permutation
	Seed int64 `yaml:"seed" json:"seed"`

	// Comma is the single-character CSV field separator
	Comma string `yaml:"comma" json:"comma"`

	// Header reads the first CSV record as column names
	Header bool `yaml:"header" json:"header"`

	// Nominal lists columns loaded as polynominal attributes
	Nominal []string `yaml:"nominal,omitempty" json:"nominal,omitempty"`

	// DateTime lists columns loaded as date-time attributes
	DateTime []string `yaml:"date_time,omitempty" json:"date_time,omitempty"`
}

// NewEngineConfig returns the defaults: dense double rows, '.' decimal
// point, column increment 10, comma separated input with a header.
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		Table: TableConfig{
			RowKind:         datarow.DoubleArray,
			DecimalPoint:    ".",
			ColumnIncrement: 10,
		},
		Format: FormatConfig{
			FractionDigits: -1,
		},
		Load: LoadConfig{
			Seed:   2001,
			Comma:  ",",
			Header: true,
		},
		Logging: logger.Config{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Validate checks the configuration for values the engine cannot use.
func (c *EngineConfig) Validate() error {
	if c.Table.ColumnIncrement <= 0 {
		return invalid("table.column_increment must be positive", c.Table.ColumnIncrement)
	}
	if utf8.RuneCountInString(c.Table.DecimalPoint) != 1 {
		return invalid("table.decimal_point must be a single character", c.Table.DecimalPoint)
	}
	if utf8.RuneCountInString(c.Load.Comma) != 1 {
		return invalid("load.comma must be a single character", c.Load.Comma)
	}
	if c.Load.Comma == c.Table.DecimalPoint {
		return invalid("load.comma must differ from table.decimal_point", c.Load.Comma)
	}
	if c.Format.FractionDigits < -2 {
		return invalid("format.fraction_digits must be -2, -1 or non-negative", c.Format.FractionDigits)
	}
	for _, k := range datarow.Kinds() {
		if k == c.Table.RowKind {
			return nil
		}
	}
	return invalid("table.row_kind is not a known row kind", int(c.Table.RowKind))
}

func invalid(msg string, value interface{}) error {
	return tableerrors.New(tableerrors.ErrorTypeConfig, msg).WithDetail("value", value)
}

// DecimalRune returns the decimal point, '.' when unset.
func (c *EngineConfig) DecimalRune() rune {
	return firstRune(c.Table.DecimalPoint, '.')
}

// CommaRune returns the CSV separator, ',' when unset.
func (c *EngineConfig) CommaRune() rune {
	return firstRune(c.Load.Comma, ',')
}

func firstRune(s string, fallback rune) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return fallback
	}
	return r
}
