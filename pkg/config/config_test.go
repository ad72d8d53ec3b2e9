package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points STASHSYNC_CONFIG_FILE at a path that does not exist so a stray
// stashsync.yaml in the working directory cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("STASHSYNC_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestNew_RequiredFieldMissing(t *testing.T) {
	isolate(t)
	t.Setenv("STASHSYNC_DATABASE_FILE_PATH", "")
	t.Setenv("STASHSYNC_BLOBS_DIRECTORY", "/srv/blobs")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "STASHSYNC_DATABASE_FILE_PATH (database_file_path)")
	assert.NotContains(t, err.Error(), "BLOBS_DIRECTORY")
}

func TestNew_WithEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("STASHSYNC_DATABASE_FILE_PATH", "/tmp/stash-go.sqlite")
	t.Setenv("STASHSYNC_BLOBS_DIRECTORY", "/tmp/blobs")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stash-go.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, "/tmp/blobs", cfg.BlobsDirectory)
}

func TestNew_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("STASHSYNC_DATABASE_FILE_PATH", "/tmp/stash-go.sqlite")
	t.Setenv("STASHSYNC_BLOBS_DIRECTORY", "/tmp/blobs")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "movie.nfo", cfg.SidecarFileName)
	assert.Equal(t, "poster.jpg", cfg.CoverFileName)
	assert.Equal(t, "fanart#", cfg.GalleryFolderToken)
	assert.Equal(t, []string{".mp4", ".mkv", ".avi", ".mov"}, cfg.MediaExtensions)
	assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
	assert.Equal(t, 5, cfg.DatabaseMaxRetries)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DatabaseDebug)
}

func TestNew_WithConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stashsync.yaml")
	content := `
database_file_path: /data/stash-go.sqlite
blobs_directory: /data/blobs
database_debug: true
database_busy_timeout: 10s
cover_file_name: folder.jpg
media_extensions:
  - .mp4
  - .wmv
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("STASHSYNC_CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/stash-go.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, "/data/blobs", cfg.BlobsDirectory)
	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, 10*time.Second, cfg.DatabaseBusyTimeout)
	assert.Equal(t, "folder.jpg", cfg.CoverFileName)
	assert.Equal(t, []string{".mp4", ".wmv"}, cfg.MediaExtensions)
	assert.Equal(t, "movie.nfo", cfg.SidecarFileName)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stashsync.yaml")
	content := `
database_file_path: /data/from-file.sqlite
blobs_directory: /data/blobs
gallery_folder_token: "gallery#"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("STASHSYNC_CONFIG_FILE", configPath)
	t.Setenv("STASHSYNC_DATABASE_FILE_PATH", "/data/from-env.sqlite")
	t.Setenv("STASHSYNC_DATABASE_MAX_RETRIES", "9")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, 9, cfg.DatabaseMaxRetries)
	assert.Equal(t, "gallery#", cfg.GalleryFolderToken)
}

func TestNew_InvalidLogLevel(t *testing.T) {
	isolate(t)
	t.Setenv("STASHSYNC_DATABASE_FILE_PATH", "/tmp/stash-go.sqlite")
	t.Setenv("STASHSYNC_BLOBS_DIRECTORY", "/tmp/blobs")
	t.Setenv("STASHSYNC_LOG_LEVEL", "loud")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "log_level")
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.NotEmpty(t, cfg.BlobsDirectory)
	assert.Equal(t, "movie.nfo", cfg.SidecarFileName)
	assert.NoError(t, validate(cfg))
}

func TestNew_IgnoresUnprefixedEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("STASHSYNC_DATABASE_FILE_PATH", "/tmp/stash-go.sqlite")
	t.Setenv("STASHSYNC_BLOBS_DIRECTORY", "/tmp/blobs")
	t.Setenv("DATABASE_FILE_PATH", "/tmp/other.sqlite")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stash-go.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigKey(t *testing.T) {
	tests := []struct {
		field    string
		expected string
	}{
		{"BlobsDirectory", "blobs_directory"},
		{"GalleryFolderToken", "gallery_folder_token"},
		{"NotAField", "not_a_field"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, configKey(&Config{}, tt.field))
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database_file_path", envKey("STASHSYNC_DATABASE_FILE_PATH"))
	assert.Equal(t, "log_level", envKey("STASHSYNC_LOG_LEVEL"))
}
