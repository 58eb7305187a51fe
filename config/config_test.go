package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 0.55, cfg.Backtest.EntryThreshold)
	assert.Equal(t, 10, cfg.Screener.Workers)
	assert.NotEmpty(t, cfg.Journal.DBPath)
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
models:
  scaler_path: ./artifacts/scaler.yaml
backtest:
  entry_threshold: 0.6
  exit_threshold: 0.45
  fee_bps: 20
screener:
  workers: 4
  max_results: 25
journal:
  db_path: ./test.sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./artifacts/scaler.yaml", cfg.Models.ScalerPath)
	assert.Equal(t, 0.6, cfg.Backtest.EntryThreshold)
	assert.Equal(t, 20.0, cfg.Backtest.FeeBps)
	assert.Equal(t, 4, cfg.Screener.Workers)
	assert.Equal(t, "./test.sqlite", cfg.Journal.DBPath)
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"backtest":{"entry_threshold":0.7,"exit_threshold":0.3},"journal":{"db_path":"x.sqlite"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Backtest.EntryThreshold)
	assert.Equal(t, 0.3, cfg.Backtest.ExitThreshold)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_InvalidRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
backtest:
  entry_threshold: 1.5
  exit_threshold: 0.5
journal:
  db_path: x.sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Backtest.ExitThreshold = -0.1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Backtest.FeeBps = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Screener.Workers = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Journal.DBPath = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadUniverse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.txt")
	doc := `# indian large caps
RELIANCE

TCS
  INFY
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	universe, err := LoadUniverse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RELIANCE", "TCS", "INFY"}, universe)
}

func TestLoadUniverse_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n\n"), 0o644))

	_, err := LoadUniverse(path)
	assert.Error(t, err)

	_, err = LoadUniverse(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
