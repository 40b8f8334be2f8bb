package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.csv")
	headers := []string{"grade_id", "comment"}
	records := [][]string{
		{"10", ""},
		{"12", "Dobrze, ale \"staranniej\""},
	}

	require.NoError(t, WriteCSV(path, headers, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{headers}, records...), got)
}

func TestWriteCSVHeadersOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(path, []string{"a", "b"}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestWriteCSVBadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), []string{"a"}, nil)
	assert.Error(t, err)
}
