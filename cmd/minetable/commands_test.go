package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/minetable/pkg/config"
	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func weatherCSV(t *testing.T) string {
	return testutil.WriteCSV(t, t.TempDir(), "weather.csv",
		[]string{"outlook", "temperature", "play"},
		[][]string{
			{"sunny", "85", "no"},
			{"overcast", "83", "yes"},
			{"rain", "?", "yes"},
			{"sunny", "69", "yes"},
		})
}

func TestLoadCommand(t *testing.T) {
	path := weatherCSV(t)
	out, err := run(t, "load", path, "--nominal", "outlook,play", "--log-level", "error")
	require.NoError(t, err)

	var summary tableSummary
	require.NoError(t, gojson.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, 3, summary.Columns)
	require.Len(t, summary.Attributes, 3)

	outlook := summary.Attributes[0]
	assert.Equal(t, "outlook", outlook.Name)
	assert.Equal(t, "polynominal", outlook.Type)
	assert.Equal(t, []string{"sunny", "overcast", "rain"}, outlook.Values)
	assert.Equal(t, "sunny", outlook.Mode)

	temp := summary.Attributes[1]
	assert.Equal(t, "real", temp.Type)
	assert.InDelta(t, 79.0, temp.Statistics["average"], 1e-9)
	assert.Equal(t, 69.0, temp.Statistics["minimum"])
	assert.Equal(t, 85.0, temp.Statistics["maximum"])
	assert.Equal(t, 1.0, temp.Statistics["unknown"])

	assert.Contains(t, summary.Metrics, "attributes_added")
}

func TestLoadCommandSparseRows(t *testing.T) {
	path := weatherCSV(t)
	out, err := run(t, "load", path,
		"--nominal", "outlook,play",
		"--row-kind", datarow.DoubleSparseArray.String(),
		"--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, `"rows":4`)
}

func TestLoadCommandErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "load", filepath.Join(t.TempDir(), "nope.csv"), "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot open input")
	})

	t.Run("jsonl without columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rows.jsonl")
		require.NoError(t, os.WriteFile(path, []byte("[1, 2]\n"), 0o600))
		_, err := run(t, "load", path, "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "column names required")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "load", weatherCSV(t), "--format", "xml", "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown input format")
	})

	t.Run("unknown row kind", func(t *testing.T) {
		_, err := run(t, "load", weatherCSV(t), "--row-kind", "bogus", "--log-level", "error")
		require.Error(t, err)
	})
}

func TestLoadCommandHeaderColumnsArePositional(t *testing.T) {
	t.Run("blank header cell", func(t *testing.T) {
		path := testutil.WriteCSV(t, t.TempDir(), "blank.csv",
			[]string{"a", "", "b"},
			[][]string{{"1", "2", "3"}, {"4", "5", "6"}})
		out, err := run(t, "load", path, "--log-level", "error")
		require.NoError(t, err)

		var summary tableSummary
		require.NoError(t, gojson.Unmarshal([]byte(out), &summary))
		require.Len(t, summary.Attributes, 3)
		assert.Equal(t, "att1", summary.Attributes[1].Name)
		assert.InDelta(t, 3.5, summary.Attributes[1].Statistics["average"], 1e-9)
	})

	t.Run("duplicate header names", func(t *testing.T) {
		path := testutil.WriteCSV(t, t.TempDir(), "dup.csv",
			[]string{"a", "a"},
			[][]string{{"1", "9"}, {"2", "8"}})
		out, err := run(t, "load", path, "--log-level", "error")
		require.NoError(t, err)

		var summary tableSummary
		require.NoError(t, gojson.Unmarshal([]byte(out), &summary))
		require.Len(t, summary.Attributes, 2)
		assert.InDelta(t, 1.5, summary.Attributes[0].Statistics["average"], 1e-9)
		assert.InDelta(t, 8.5, summary.Attributes[1].Statistics["average"], 1e-9)
	})

	t.Run("named columns still match by name", func(t *testing.T) {
		path := testutil.WriteCSV(t, t.TempDir(), "named.csv",
			[]string{"a", "b"},
			[][]string{{"1", "9"}, {"2", "8"}})
		out, err := run(t, "load", path, "--columns", "b", "--log-level", "error")
		require.NoError(t, err)

		var summary tableSummary
		require.NoError(t, gojson.Unmarshal([]byte(out), &summary))
		require.Len(t, summary.Attributes, 1)
		assert.InDelta(t, 8.5, summary.Attributes[0].Statistics["average"], 1e-9)
	})
}

func TestLoadCommandJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.jsonl")
	data := "[\"a\", 1.5]\n[\"b\", 2.5]\n[\"a\", null]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, err := run(t, "load", path, "--columns", "label,x", "--nominal", "label", "--log-level", "error")
	require.NoError(t, err)

	var summary tableSummary
	require.NoError(t, gojson.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, []string{"a", "b"}, summary.Attributes[0].Values)
	assert.InDelta(t, 2.0, summary.Attributes[1].Statistics["average"], 1e-9)
}

func TestInspectCommand(t *testing.T) {
	path := weatherCSV(t)
	out, err := run(t, "inspect", path, "--nominal", "outlook,play", "-n", "2", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "outlook\ttemperature\tplay", lines[0])
	assert.Equal(t, "sunny\t85\tno", lines[1])
	assert.Equal(t, "overcast\t83\tyes", lines[2])
	assert.Equal(t, "(4 rows, 3 attributes)", lines[3])
}

func TestInspectCommandPermuted(t *testing.T) {
	path := weatherCSV(t)
	out, err := run(t, "inspect", path, "--nominal", "outlook,play", "--permute", "--seed", "7", "-n", "0", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.ElementsMatch(t,
		[]string{"sunny\t85\tno", "overcast\t83\tyes", "rain\t?\tyes", "sunny\t69\tyes"},
		lines[1:5])
}

func TestExportCommand(t *testing.T) {
	path := weatherCSV(t)
	output := filepath.Join(t.TempDir(), "weather.arrow")
	_, err := run(t, "export", path, "--nominal", "outlook,play", "-o", output, "--log-level", "error")
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	cfg, err := config.LoadEngineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewEngineConfig(), cfg)

	// the written file drives a later load
	_, err = run(t, "load", weatherCSV(t), "--config", path, "--nominal", "outlook,play", "--log-level", "error")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "minetable v"+version)
}
