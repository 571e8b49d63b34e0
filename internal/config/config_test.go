package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("AWS_BUCKET_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "ong-connect", cfg.AWSBucketName)
	require.Equal(t, 24, cfg.JWTTTLHours)
	require.Equal(t, 60, cfg.ResetTokenTTLMinutes)
	require.True(t, cfg.AWSPublicRead)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("db_driver: postgres\ndb_port: \"5432\"\naws_public_read: false\nfrontend_url: https://ong.example\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("AWS_PUBLIC_READ", "")
	t.Setenv("FRONTEND_URL", "https://override.example")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "5432", cfg.DBPort)
	require.False(t, cfg.AWSPublicRead)
	require.Equal(t, "https://override.example", cfg.FrontendURL)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}
