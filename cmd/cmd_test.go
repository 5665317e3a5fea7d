package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mergefiles/pkg/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree with a private config directory.
func run(t *testing.T, configDir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", configDir}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/b.cs":            "class B {}",
		"src/a.cs":            "class A {}",
		"bin/Debug/out.cs":    "generated",
		"build/keep.txt":      "kept",
		"src/image.png":       "\x89PNG",
		"wwwroot/vendor/x.js": "vendor",
	}
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func TestListUsesDefaultRules(t *testing.T) {
	configDir := t.TempDir()
	project := writeProject(t)

	stdout, _, err := run(t, configDir, "", "list", project)
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(project, "src", "a.cs")+"\n"+
			filepath.Join(project, "src", "b.cs")+"\n"+
			"Total files: 2\n",
		stdout)

	// Defaults were written on first use and edits apply immediately.
	cfg := settings.Defaults(configDir)
	require.FileExists(t, cfg.AllowPath())
	require.NoError(t, os.WriteFile(cfg.IncludePath(), []byte("# keep\nbuild/keep.txt\n"), 0o644))

	stdout, _, err = run(t, configDir, "", "list", "--tree", project)
	require.NoError(t, err)
	assert.Contains(t, stdout, "keep.txt")
	assert.Contains(t, stdout, "Total files: 3\n")
}

func TestMergeWritesOutput(t *testing.T) {
	configDir := t.TempDir()
	project := writeProject(t)
	outDir := t.TempDir()

	stdout, _, err := run(t, configDir, "", "merge", "-o", outDir, "-p", "Snap:shot", "--order", "name", filepath.Join(project, "src"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Merged 2 files into ")

	matches, err := filepath.Glob(filepath.Join(outDir, "Snap_shot*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	got, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "===== a.cs =====\n\nclass A {}\n\n===== b.cs =====\n\nclass B {}\n\n", string(got))

	// Without a terminal an existing file is only replaced with --force.
	_, _, err = run(t, configDir, "", "merge", "-o", outDir, "-p", "Snap:shot", filepath.Join(project, "src"))
	if err != nil {
		assert.ErrorIs(t, err, errExists)
		_, _, err = run(t, configDir, "", "merge", "-f", "-o", outDir, "-p", "Snap:shot", filepath.Join(project, "src"))
		require.NoError(t, err)
	}
}

func TestMergeValidation(t *testing.T) {
	configDir := t.TempDir()
	outDir := t.TempDir()

	_, _, err := run(t, configDir, "", "merge", "-o", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files selected")

	project := writeProject(t)
	_, _, err = run(t, configDir, "", "merge", "-o", outDir, "--prefix", " ", project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMergeReportsMissingRoot(t *testing.T) {
	configDir := t.TempDir()
	project := writeProject(t)

	_, stderr, err := run(t, configDir, "", "merge", "-o", t.TempDir(), filepath.Join(project, "nope"), project)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: ")
	assert.Contains(t, stderr, "nope")
}

func TestShellSession(t *testing.T) {
	configDir := t.TempDir()
	project := writeProject(t)
	outDir := t.TempDir()

	script := strings.Join([]string{
		`add "` + project + `"`,
		"list",
		`remove ` + strings.ToUpper(filepath.Join(project, "src", "b.cs")),
		"bogus",
		"merge Shell",
		"clear",
		"merge Shell",
		"quit",
	}, "\n") + "\n"

	stdout, _, err := run(t, configDir, script, "shell", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added 2 files (total 2)")
	assert.Contains(t, stdout, "Total files: 2")
	assert.Contains(t, stdout, "Removed 1 files (total 1)")
	assert.Contains(t, stdout, `Unknown command "bogus"`)
	assert.Contains(t, stdout, "Merged 1 files into ")
	assert.Contains(t, stdout, "Cleared file list")
	assert.Contains(t, stdout, "Error: no files selected")

	matches, err := filepath.Glob(filepath.Join(outDir, "Shell*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	got, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "===== a.cs =====\n\nclass A {}\n\n", string(got))
}

func TestShellStopsAtEOF(t *testing.T) {
	stdout, _, err := run(t, t.TempDir(), "help", "shell")
	require.NoError(t, err)
	assert.Contains(t, stdout, "merge [prefix]")
}

func TestSplitWords(t *testing.T) {
	testCases := []struct {
		line     string
		expected []string
		wantErr  bool
	}{
		{"add a b", []string{"add", "a", "b"}, false},
		{`add "C:\My Files\x.txt"  y`, []string{"add", `C:\My Files\x.txt`, "y"}, false},
		{`merge ""`, []string{"merge", ""}, false},
		{"   ", nil, false},
		{`add "open`, nil, true},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			words, err := splitWords(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, words)
		})
	}
}

func TestConfigCommands(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "cfg")

	stdout, _, err := run(t, configDir, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created "+filepath.Join(configDir, "allow.txt"))

	stdout, _, err = run(t, configDir, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "All configuration files already exist")

	stdout, _, err = run(t, configDir, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(36 extensions)")
	assert.Contains(t, stdout, "(10 rules)")
	assert.Contains(t, stdout, "Include list: "+filepath.Join(configDir, "include.txt")+" (0 rules)")
}

func TestVersionSkipsConfiguration(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "untouched")

	stdout, _, err := run(t, configDir, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
	assert.NoDirExists(t, configDir)
}
