package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "ignore_list.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains("M1"))
}

func TestAddAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore_list.csv")

	l, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, l.Add("M1"))
	require.NoError(t, l.Add("M2"))
	require.NoError(t, l.Add("M1"), "re-adding must be a no-op")

	assert.True(t, l.Contains("M1"))
	assert.True(t, l.Contains("M2"))
	assert.Equal(t, 2, l.Len())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Contains("M1"))
	assert.True(t, reloaded.Contains("M2"))
	assert.Equal(t, 2, reloaded.Len())
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore_list.csv")

	l, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, l.Add("M1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "msg_id\nM1\n", string(data))
}

func TestLoadHandwrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore_list.csv")
	require.NoError(t, os.WriteFile(path, []byte("msg_id\nM1\nM2\n"), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.True(t, l.Contains("M1"))
	assert.True(t, l.Contains("M2"))
	assert.False(t, l.Contains("msg_id"), "header row is not an id")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore_list.csv")
	require.NoError(t, os.WriteFile(path, []byte("msg_id\nM1,extra\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
