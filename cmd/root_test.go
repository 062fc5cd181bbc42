package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, initializeConfig(nil))
	require.Equal(t, "content/base.html", appConfig.Template)
	require.Equal(t, "content/pages", appConfig.Content)
	require.Equal(t, "build", appConfig.Output)
	require.Equal(t, "static", appConfig.Static)
	require.Empty(t, appConfig.IndexOutput)
}

func TestInitializeConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfgYAML := "template: pages/base.html\ncontent: pages/content\noutput: build\nindexOutput: .\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sitegen.yaml"), []byte(cfgYAML), 0o644))

	require.NoError(t, initializeConfig(nil))
	require.Equal(t, "pages/base.html", appConfig.Template)
	require.Equal(t, "pages/content", appConfig.Content)
	require.Equal(t, ".", appConfig.IndexOutput)
	// Unset keys keep their defaults.
	require.Equal(t, "static", appConfig.Static)
}
