package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadFrom_MissingFile verifies a missing config file is nil,
// not an error
func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Nil(t, cfg)
}

// TestLoadFrom_FullConfig verifies all fields parse
func TestLoadFrom_FullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
credentials:
  username: reader@example.com
  password: hunter2
max_sections: 3
max_articles_per_section: 10
archive_path: /var/lib/printfeed/archive.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NotNil(t, cfg.Credentials)
	assert.Equal(t, "reader@example.com", cfg.Credentials.Username)
	assert.Equal(t, "hunter2", cfg.Credentials.Password)
	assert.Equal(t, 3, cfg.MaxSections)
	assert.Equal(t, 10, cfg.MaxArticlesPerSection)
	assert.Equal(t, "/var/lib/printfeed/archive.db", cfg.ArchivePath)
}

// TestLoadFrom_NoCredentials verifies credentials stay nil when
// omitted
func TestLoadFrom_NoCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_sections: 1\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Nil(t, cfg.Credentials)
	assert.Equal(t, 1, cfg.MaxSections)
}

// TestLoadFrom_InvalidYAML verifies parse failures surface as errors
func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("credentials: [not a map\n"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
