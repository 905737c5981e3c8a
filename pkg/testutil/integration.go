package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// IntegrationTestSuite provides a temp directory and timing for suites
// that load files end to end.
type IntegrationTestSuite struct {
	suite.Suite
	tempDir   string
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *IntegrationTestSuite) SetupSuite() {
	s.startTime = time.Now()
	tempDir, err := os.MkdirTemp("", "minetable-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir
	s.T().Logf("Integration test suite started in %s", s.tempDir)
}

// TearDownSuite runs after all tests in the suite
func (s *IntegrationTestSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
	s.T().Logf("Integration test suite completed in %v", time.Since(s.startTime))
}

// TempDir returns the temporary directory path
func (s *IntegrationTestSuite) TempDir() string {
	return s.tempDir
}

// CreateTempFile creates a temporary file with content
func (s *IntegrationTestSuite) CreateTempFile(name string, content []byte) string {
	path := filepath.Join(s.tempDir, name)
	require.NoError(s.T(), os.WriteFile(path, content, 0o600))
	return path
}

// IntegrationTest marks a test as an integration test
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// LoadMeasurement reports how a bulk load went.
type LoadMeasurement struct {
	Rows       int
	Duration   time.Duration
	AllocBytes uint64
}

// RowsPerSecond returns the load throughput.
func (m LoadMeasurement) RowsPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Rows) / m.Duration.Seconds()
}

func (m LoadMeasurement) String() string {
	return fmt.Sprintf("%d rows in %v (%.0f rows/sec, %s allocated)",
		m.Rows, m.Duration, m.RowsPerSecond(), formatBytes(int64(m.AllocBytes)))
}

// MeasureLoad runs fn, which returns the number of rows it loaded, and logs
// throughput and allocation.
func MeasureLoad(t *testing.T, name string, fn func() int) LoadMeasurement {
	t.Helper()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	rows := fn()
	m := LoadMeasurement{Rows: rows, Duration: time.Since(start)}
	runtime.ReadMemStats(&after)
	m.AllocBytes = after.TotalAlloc - before.TotalAlloc
	t.Logf("%s: %s", name, m)
	return m
}

// formatBytes formats bytes into human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
