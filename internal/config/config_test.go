package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	t.Setenv("STORAGE", StorageMongo)

	cfg, err := Build(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err, "missing env file must be tolerated")

	require.Equal(t, 8080, cfg.HTTPCfg.Port)
	require.Equal(t, 10*time.Second, cfg.HTTPCfg.ShutdownTimeout)
	require.Equal(t, "customers", cfg.MongoCfg.Database)
	require.Empty(t, cfg.RedisCfg.Addr, "cache is disabled by default")
}

func TestBuildFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "POSTGRES_USER=customers\nPOSTGRES_DB=customers\nPOSTGRES_HOST=pg-customers\nHTTP_PORT=3000\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("STORAGE", StoragePostgres)
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Cleanup(func() {
		for _, k := range []string{"POSTGRES_USER", "POSTGRES_DB", "POSTGRES_HOST", "HTTP_PORT"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Build(envFile)
	require.NoError(t, err)
	require.Equal(t, 3000, cfg.HTTPCfg.Port)
	require.Equal(t, "user=customers password= host=pg-customers port=5432 dbname=customers sslmode=disable pool_max_conns=100", cfg.PostgresCfg.DSN())
}

func TestBuildUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")

	_, err := Build(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
