package main

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/arrowexport"
	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/config"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/logger"
	"github.com/ajitpratap0/minetable/pkg/metrics"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// loadFlags are shared by every command that reads a data file.
type loadFlags struct {
	configFile string
	format     string
	rowKind    string
	columns    []string
	nominal    []string
	dateTime   []string
	permute    bool
	seed       int64
	noHeader   bool
	comma      string
	logLevel   string
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "engine configuration file (YAML)")
	cmd.Flags().StringVar(&f.format, "format", "", "input format: csv or jsonl (default from file extension)")
	cmd.Flags().StringVar(&f.rowKind, "row-kind", "", "row encoding, e.g. double_array or double_sparse_array")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "column names when the input has no header")
	cmd.Flags().StringSliceVar(&f.nominal, "nominal", nil, "columns to load as nominal attributes")
	cmd.Flags().StringSliceVar(&f.dateTime, "date-time", nil, "columns to load as date-time attributes")
	cmd.Flags().BoolVar(&f.permute, "permute", false, "insert rows at random positions")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "permutation seed (default from configuration)")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "CSV input has no header record")
	cmd.Flags().StringVar(&f.comma, "comma", "", "CSV field separator")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// engineConfig merges the configuration file and the flags that were set.
func (f *loadFlags) engineConfig(cmd *cobra.Command) (*config.EngineConfig, error) {
	cfg := config.NewEngineConfig()
	if f.configFile != "" {
		loaded, err := config.LoadEngineConfig(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("row-kind") {
		kind, err := datarow.ParseKind(f.rowKind)
		if err != nil {
			return nil, err
		}
		cfg.Table.RowKind = kind
	}
	if flags.Changed("nominal") {
		cfg.Load.Nominal = f.nominal
	}
	if flags.Changed("date-time") {
		cfg.Load.DateTime = f.dateTime
	}
	if flags.Changed("permute") {
		cfg.Load.Permute = f.permute
	}
	if flags.Changed("seed") {
		cfg.Load.Seed = f.seed
	}
	if flags.Changed("no-header") {
		cfg.Load.Header = !f.noHeader
	}
	if flags.Changed("comma") {
		cfg.Load.Comma = f.comma
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeConfig, "cannot initialize logger")
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minetable",
		Short:         "minetable - in-memory example tables",
		Long:          `minetable loads CSV or JSON-lines data into an in-memory example table and reports on it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "minetable v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newLoadCmd(), newInspectCmd(), newExportCmd(), newConfigCmd())
	return root
}

func newLoadCmd() *cobra.Command {
	var flags loadFlags
	var pretty bool
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load a file and print a JSON summary of the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.engineConfig(cmd)
			if err != nil {
				return err
			}
			tbl, err := loadTable(cmd.Context(), args[0], flags.format, flags.columns, cfg)
			if err != nil {
				return err
			}
			tbl.RecalculateStatistics()
			summary := summarize(tbl)
			enc := gojson.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(summary)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON summary")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var flags loadFlags
	var rows int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load a file and print its first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.engineConfig(cmd)
			if err != nil {
				return err
			}
			tbl, err := loadTable(cmd.Context(), args[0], flags.format, flags.columns, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			attrs := tbl.Attributes()
			names := make([]string, len(attrs))
			for i, a := range attrs {
				names[i] = a.Name()
			}
			fmt.Fprintln(out, strings.Join(names, "\t"))

			reader := tbl.RowReader()
			cells := make([]string, len(attrs))
			for n := 0; reader.HasNext() && (rows <= 0 || n < rows); n++ {
				row, err := reader.Next()
				if err != nil {
					return err
				}
				for i, a := range attrs {
					cells[i] = a.AsString(a.Value(row), cfg.Format.FractionDigits, cfg.Format.QuoteNominal)
				}
				fmt.Fprintln(out, strings.Join(cells, "\t"))
			}
			fmt.Fprintf(out, "(%d rows, %d attributes)\n", tbl.Size(), len(attrs))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "number of rows to print, 0 for all")
	return cmd
}

func newExportCmd() *cobra.Command {
	var flags loadFlags
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Load a file and write it as an Arrow IPC file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.engineConfig(cmd)
			if err != nil {
				return err
			}
			tbl, err := loadTable(cmd.Context(), args[0], flags.format, flags.columns, cfg)
			if err != nil {
				return err
			}
			file, err := os.Create(output) //nolint:gosec // G304: output path comes from the user
			if err != nil {
				return tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot create output file").
					WithDetail("path", output)
			}
			if err := arrowexport.WriteIPC(file, tbl); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "cannot close output file")
			}
			logger.Info("table exported",
				zap.String("path", output),
				zap.Int("rows", tbl.Size()),
				zap.Int("attributes", tbl.LiveAttributeCount()))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table.arrow", "Arrow IPC output file")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage engine configuration files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <file>",
		Short: "Write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.NewEngineConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	})
	return cmd
}

// attributeSummary describes one attribute in the load summary.
type attributeSummary struct {
	Index      int                `json:"index"`
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Values     []string           `json:"values,omitempty"`
	Mode       string             `json:"mode,omitempty"`
	Statistics map[string]float64 `json:"statistics,omitempty"`
}

type tableSummary struct {
	Rows       int                `json:"rows"`
	Columns    int                `json:"columns"`
	Attributes []attributeSummary `json:"attributes"`
	Metrics    map[string]float64 `json:"metrics"`
}

var statisticKeys = []string{
	attribute.StatAverage,
	attribute.StatVariance,
	attribute.StatMinimum,
	attribute.StatMaximum,
	attribute.StatUnknown,
}

type summarizable interface {
	Size() int
	Columns() int
	Attributes() []attribute.Attribute
}

func summarize(t summarizable) tableSummary {
	s := tableSummary{Rows: t.Size(), Columns: t.Columns(), Metrics: metrics.Snapshot()}
	for _, a := range t.Attributes() {
		as := attributeSummary{
			Index:      a.TableIndex(),
			Name:       a.Name(),
			Type:       a.ValueType().String(),
			Statistics: make(map[string]float64),
		}
		if m, err := a.Mapping(); err == nil {
			as.Values = m.Values()
		}
		for _, st := range a.AllStatistics() {
			for _, key := range statisticKeys {
				if v, ok := st.Value(key); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
					as.Statistics[key] = v
				}
			}
			if v, ok := st.Value(attribute.StatMode); ok {
				as.Mode = a.AsString(v, attribute.DefaultDigits, false)
			}
		}
		s.Attributes = append(s.Attributes, as)
	}
	return s
}
