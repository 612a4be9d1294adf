package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string  `json:"name"`
	Delay   float64 `json:"delay"`
	Retries int     `json:"retries"`
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "fbref.json5")
	require.NoError(t, os.WriteFile(base, []byte(`{
		// comments are allowed
		name: "base",
		delay: 5.0,
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fbref.local.json5"), []byte(`{delay: 1.5}`), 0600))

	out := testConfig{Retries: 3}
	require.NoError(t, ReadConfigInto(base, &out))
	require.Equal(t, testConfig{Name: "base", Delay: 1.5, Retries: 3}, out)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{name: `), 0600))
	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
