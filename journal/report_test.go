package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRun(t *testing.T) {
	res := testResult(t)
	rec := NewRunRecord("R1", "synthetic:1", 1, res)

	var buf bytes.Buffer
	PrintRun(&buf, rec)
	out := buf.String()

	assert.Contains(t, out, "Run ID:        R1")
	assert.Contains(t, out, "Protected:     90% of peak")
	assert.Contains(t, out, "Start:         2019-01-02")
	assert.Contains(t, out, "Switches:      2")
	assert.NotContains(t, out, "Shocks:")
}

func TestFormatRunOrg(t *testing.T) {
	rec := NewRunRecord("R1", "historical:^GSPC/VBISX", 0, testResult(t))
	rec.StressEnabled = true
	rec.Seed = 42

	s, err := FormatRunOrg(rec)
	require.NoError(t, err)

	assert.Contains(t, s, "* STOP-LOSS: historical:^GSPC/VBISX 90% floor")
	assert.Contains(t, s, ":RUN_ID:      R1")
	assert.Contains(t, s, ":START_DATE:  2019-01-02")
	assert.Contains(t, s, "(seed 42)")
}

func TestWriteRunOrg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, WriteRunOrg(path, NewRunRecord("R1", "x", 0, testResult(t))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":RUN_ID:      R1")
}
