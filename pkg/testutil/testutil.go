// Package testutil provides testing utilities for minetable
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/minetable/pkg/attribute"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ObservedLogger returns a logger that records entries at level and above,
// plus the recorded entries.
func ObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// NumericAttributes creates one real attribute per name.
func NumericAttributes(names ...string) []attribute.Attribute {
	out := make([]attribute.Attribute, len(names))
	for i, n := range names {
		out[i] = attribute.NewNumerical(n, attribute.Real)
	}
	return out
}

// Bind sets every attribute's table index to its position.
func Bind(attrs ...attribute.Attribute) []attribute.Attribute {
	for i, a := range attrs {
		a.SetTableIndex(i)
	}
	return attrs
}

// WriteCSV writes header and rows as comma separated text to dir/name and
// returns the path.
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()
	var b strings.Builder
	if header != nil {
		b.WriteString(strings.Join(header, ","))
		b.WriteByte('\n')
	}
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

// CreateTestData writes a CSV with columns id, value and color holding
// n rows drawn from a seeded generator. Every tenth value is missing.
func CreateTestData(t *testing.T, dir string, n int, seed int64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	colors := []string{"red", "green", "blue"}
	rows := make([][]string, n)
	for i := range rows {
		value := fmt.Sprintf("%.2f", rng.Float64()*100)
		if i%10 == 9 {
			value = "?"
		}
		rows[i] = []string{fmt.Sprint(i), value, colors[rng.Intn(len(colors))]}
	}
	return WriteCSV(t, dir, "test_data.csv", []string{"id", "value", "color"}, rows)
}
