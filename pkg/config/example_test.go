package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/minetable/pkg/config"
	"github.com/ajitpratap0/minetable/pkg/datarow"
)

// ExampleNewEngineConfig demonstrates the default configuration.
func ExampleNewEngineConfig() {
	cfg := config.NewEngineConfig()

	fmt.Printf("Row kind: %s\n", cfg.Table.RowKind)
	fmt.Printf("Column increment: %d\n", cfg.Table.ColumnIncrement)
	fmt.Printf("Decimal point: %c\n", cfg.DecimalRune())

	// Output:
	// Row kind: double_array
	// Column increment: 10
	// Decimal point: .
}

// ExampleEngineConfig_Validate shows how to validate a configuration
// before using it.
func ExampleEngineConfig_Validate() {
	cfg := config.NewEngineConfig()
	cfg.Table.RowKind = datarow.DoubleSparseArray
	cfg.Table.DecimalPoint = ","
	cfg.Load.Comma = ";"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	fmt.Println("Configuration is valid!")

	cfg.Load.Comma = ","
	fmt.Println(cfg.Validate() != nil)

	// Output:
	// Configuration is valid!
	// true
}

// ExampleParse demonstrates decoding YAML over the defaults.
func ExampleParse() {
	cfg := config.NewEngineConfig()
	yaml := []byte(`
table:
  row_kind: int_sparse_array
load:
  permute: true
  nominal: [color, shape]
`)
	if err := config.Parse(yaml, cfg); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Row kind: %s\n", cfg.Table.RowKind)
	fmt.Printf("Permute: %v\n", cfg.Load.Permute)
	fmt.Printf("Nominal: %v\n", cfg.Load.Nominal)
	fmt.Printf("Increment: %d\n", cfg.Table.ColumnIncrement)

	// Output:
	// Row kind: int_sparse_array
	// Permute: true
	// Nominal: [color shape]
	// Increment: 10
}
