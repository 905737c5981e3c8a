// Package config provides engine configuration for minetable.
//
// A single EngineConfig covers every tunable of the engine, organized into
// sections:
//   - Table: row encoding, decimal point and column growth
//   - Format: how values are rendered
//   - Load: how row sources are read into tables
//   - Logging: the zap logger setup
//
// # Usage
//
//	cfg, err := config.LoadEngineConfig("engine.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	factory := rowfactory.New(cfg.Table.RowKind, cfg.DecimalRune())
//
// # Environment Variable Substitution
//
// ${VAR_NAME} references are replaced before the YAML is parsed:
//
//	# engine.yaml
//	table:
//	  row_kind: ${ROW_KIND}
//	load:
//	  seed: 42
//
// Unset variables expand to the empty string, which leaves the default in
// place for that key.
package config
