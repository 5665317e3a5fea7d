package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveDir(t *testing.T) {
	explicit := t.TempDir()
	fromEnv := t.TempDir()
	t.Setenv(EnvConfigDir, fromEnv)

	dir, err := ResolveDir(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, dir)

	dir, err = ResolveDir("")
	require.NoError(t, err)
	assert.Equal(t, fromEnv, dir)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(dir), cfg)
	assert.Equal(t, filepath.Join(dir, "allow.txt"), cfg.AllowPath())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "shared-ignore.txt")
	content := `
prefix = "Snapshot"
merge_order = "name"
ignore_file = "` + filepath.ToSlash(abs) + `"
allow_file = "lists/allow.txt"
colour = "blue"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	cfg, err := Load(dir, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "Snapshot", cfg.Prefix)
	assert.Equal(t, OrderName, cfg.MergeOrder)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, filepath.Join(dir, "lists", "allow.txt"), cfg.AllowPath())
	assert.Equal(t, abs, filepath.Clean(cfg.IgnorePath()))
	assert.Equal(t, filepath.Join(dir, "include.txt"), cfg.IncludePath())

	require.Equal(t, 1, logs.FilterMessage("Unrecognized keys found in settings file").Len())
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("prefix = [unterminated"), 0o644))

	cfg, err := Load(dir, nil)
	require.Error(t, err)
	assert.Equal(t, Defaults(dir), cfg)
}

func TestLoadRejectsUnknownOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`merge_order = "random"`), 0o644))

	_, err := Load(dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "random")
}

func TestEnsureFilesCreatesDefaultsOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	cfg := Defaults(dir)

	created, err := EnsureFiles(cfg, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{cfg.AllowPath(), cfg.IgnorePath(), cfg.IncludePath(), cfg.SettingsPath()}, created)

	ignore, err := os.ReadFile(cfg.IgnorePath())
	require.NoError(t, err)
	assert.Contains(t, string(ignore), "wwwroot/vendor\n")

	// A user edit survives a second call.
	require.NoError(t, os.WriteFile(cfg.AllowPath(), []byte(".go\n"), 0o644))
	created, err = EnsureFiles(cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, created)

	allow, err := os.ReadFile(cfg.AllowPath())
	require.NoError(t, err)
	assert.Equal(t, ".go\n", string(allow))

	// The written settings file loads back to the same values.
	loaded, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultRulesThroughProvider(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults(dir)
	_, err := EnsureFiles(cfg, nil)
	require.NoError(t, err)

	rules := cfg.Provider(nil).Reload()
	assert.Len(t, rules.Extensions, len(DefaultAllow))
	assert.Len(t, rules.Ignore, len(DefaultIgnore))
	assert.Empty(t, rules.Include, "comment lines are not include rules")
	assert.True(t, rules.Ignored("/src/app/wwwroot/vendor/jquery.js"))
}
