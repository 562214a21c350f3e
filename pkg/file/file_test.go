package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_ExistsAndDirs(t *testing.T) {
	fs := NewFileService()
	dir := t.TempDir()

	exists, err := fs.IsFileExists(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, exists)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, fs.EnsureDir(nested))

	isDir, err := fs.IsDirExists(nested)
	require.NoError(t, err)
	assert.True(t, isDir)

	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	isDir, err = fs.IsDirExists(path)
	require.NoError(t, err)
	assert.False(t, isDir)

	raw, err := fs.ReadFileRaw(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), raw)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: store\nport: 3000\n"), 0600))

	var out struct {
		Name string `yaml:"name"`
		Port int    `yaml:"port"`
	}
	require.NoError(t, fs.ReadYamlFile(path, &out))
	assert.Equal(t, "store", out.Name)
	assert.Equal(t, 3000, out.Port)

	require.NoError(t, os.WriteFile(path, []byte("unknown: true\n"), 0600))
	assert.Error(t, fs.ReadYamlFile(path, &out))
}
