package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "output.csv", cfg.OutputFile)
	assert.Equal(t, filepath.Join(DirName, "generated-files"), cfg.OutputPath)
	assert.Equal(t, ".", cfg.SourcePath)
	assert.Empty(t, cfg.Weights)

	assert.Equal(t, filepath.Join(".", "orders.csv"), cfg.CSVPath("orders"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DirName)
	assert.False(t, Exists(dir))

	require.NoError(t, EnsureDir(dir))
	assert.True(t, Exists(dir))

	cfg, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// A second EnsureDir must not clobber edits.
	cfg.OutputFile = "merged.csv"
	require.NoError(t, Write(dir, cfg))
	require.NoError(t, EnsureDir(dir))

	cfg, err = Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "merged.csv", cfg.OutputFile)
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.SourcePath = "data"
	cfg.Weights = map[string]int{"orders.customer_id->customers.id": 3}
	require.NoError(t, Write(dir, cfg))

	got, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, filepath.Join("data", "orders.csv"), got.CSVPath("orders"))
}

func TestReadMissing(t *testing.T) {
	cfg, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestReadPartial(t *testing.T) {
	// Fields absent from config.json keep their defaults.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte(`{"source_path": "data"}`), 0o644))

	cfg, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.SourcePath)
	assert.Equal(t, "output.csv", cfg.OutputFile)
}

func TestReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("{nope"), 0o644))

	_, err := Read(dir)
	assert.ErrorContains(t, err, "config.json")
}

func TestFindSchema(t *testing.T) {
	root := t.TempDir()
	_, found := FindSchema(root)
	assert.False(t, found)

	require.NoError(t, os.WriteFile(filepath.Join(root, "zz.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "aa.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub.sql"), 0o755))

	path, found := FindSchema(root)
	require.True(t, found)
	assert.Equal(t, filepath.Join(root, "aa.sql"), path)
}
