package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYaml = `
app:
  name: crawler-test
  env: production
githubApi:
  baseUrl: http://localhost:9000
crawler:
  targetUsers: 50
`

func writeYaml(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mode.yaml"), []byte(content), 0o644))
}

func TestViperLoaderReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeYaml(t, dir, testYaml)
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("APP_ENV", "development")

	c, err := NewViperLoaderAt(dir, "mode", nil, false).Load()
	require.NoError(t, err)

	assert.Equal(t, "crawler-test", c.App.Name)
	assert.True(t, c.IsDevelopment())
	assert.True(t, c.HasToken())
	assert.Equal(t, "http://localhost:9000/graphql", c.GithubApi.GraphqlUrl)
	assert.Equal(t, 50, c.Crawler.TargetUsers)
	assert.Equal(t, 150, c.Crawler.PaceMs)
}

func TestViperLoaderMissingFile(t *testing.T) {
	_, err := NewViperLoaderAt(t.TempDir(), "mode", nil, false).Load()
	assert.Error(t, err)
}

func TestViperLoaderNotifiesOnChange(t *testing.T) {
	dir := t.TempDir()
	writeYaml(t, dir, testYaml)
	loader := NewViperLoaderAt(dir, "mode", nil, false)
	_, err := loader.Load()
	require.NoError(t, err)

	var got *Config
	loader.RegisterConfigChangeCallback(func(c *Config) { got = c })

	writeYaml(t, dir, testYaml+"ui:\n  port: 9191\n")
	require.NoError(t, loader.v.ReadInConfig())
	loader.onChange(fsnotify.Event{Name: "mode.yaml"})

	require.NotNil(t, got)
	assert.Equal(t, 9191, got.Ui.Port)

	current, err := loader.Load()
	require.NoError(t, err)
	assert.Same(t, got, current)
}
