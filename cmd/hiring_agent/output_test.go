package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, "", map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.json")
	buf.Reset()
	require.NoError(t, writeJSON(&buf, path, []string{"a"}))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a\"\n]\n", string(data))
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	err := writeJSON(&bytes.Buffer{}, "", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal JSON")
}
