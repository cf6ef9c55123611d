package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexer.log")
	log := NewIsolatedLogger(path)

	log.Debug(ModuleIndexer, "below file level", nil)
	log.Info(ModuleIndexer, "Indexed collection", map[string]interface{}{"collection_id": "blog", "chunks": 12})
	log.Error(ModuleIndexer, "Upsert failed", map[string]interface{}{"error": "timeout"})
	require.NoError(t, log.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "Indexed collection", lines[0]["message"])
	assert.Equal(t, ModuleIndexer, lines[0]["module"])
	details := lines[0]["details"].(map[string]interface{})
	assert.Equal(t, "blog", details["collection_id"])
	assert.NotEmpty(t, lines[0]["timestamp"])

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "timeout", lines[1]["error_ref"])
}

func TestNopLogger_AcceptsNilDetails(t *testing.T) {
	var log ILogger = NewNopLogger()
	assert.NotPanics(t, func() {
		log.Info(ModuleSearch, "hello", nil)
		log.Warn(ModuleSearch, "hello", nil)
		_ = log.Sync()
	})
}
