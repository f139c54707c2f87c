package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.TestMode)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcharena.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 9090
[payment]
house_account = "house-from-file"
`), 0600))

	cfg, err := Load([]string{"-config", path})
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "house-from-file", cfg.HouseAccount)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcharena.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[payment]
house_account = "house-from-file"
`), 0600))
	t.Setenv("HOUSE_ACCOUNT", "house-from-env")

	cfg, err := Load([]string{"-config", path})
	require.NoError(t, err)
	require.Equal(t, "house-from-env", cfg.HouseAccount)
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	t.Setenv("HOUSE_ACCOUNT", "house-from-env")

	cfg, err := Load([]string{"-houseaccount", "house-from-flag"})
	require.NoError(t, err)
	require.Equal(t, "house-from-flag", cfg.HouseAccount)
}

func TestLoadConfigPathFromEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcharena.toml")
	require.NoError(t, os.WriteFile(path, []byte(`port = 7070`), 0600))
	t.Setenv("MATCHARENA_CONFIG", path)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)
}
