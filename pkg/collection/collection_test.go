package collection

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDeduplicatesIgnoringCase(t *testing.T) {
	c := New()

	assert.True(t, c.Add("/proj/src/Main.cs"))
	assert.False(t, c.Add("/proj/src/main.cs"))
	assert.False(t, c.Add("/PROJ/SRC/MAIN.CS"))
	assert.True(t, c.Add("/proj/src/other.cs"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"/proj/src/Main.cs", "/proj/src/other.cs"}, c.Paths())
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add("/a/One.txt")
	c.Add("/a/two.txt")

	assert.True(t, c.Remove("/A/one.TXT"))
	assert.False(t, c.Remove("/a/one.txt"))
	assert.False(t, c.Contains("/a/One.txt"))
	assert.Equal(t, []string{"/a/two.txt"}, c.Paths())

	// A removed path can be added again.
	assert.True(t, c.Add("/a/One.txt"))
	assert.Equal(t, []string{"/a/two.txt", "/a/One.txt"}, c.Paths())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add("/a.txt")
	c.Add("/b.txt")
	c.Clear()

	assert.Zero(t, c.Len())
	assert.Empty(t, c.Paths())
	assert.True(t, c.Add("/a.txt"))
}

func TestPathsReturnsCopy(t *testing.T) {
	c := New()
	c.Add("/a.txt")

	paths := c.Paths()
	paths[0] = "/mutated"
	assert.Equal(t, []string{"/a.txt"}, c.Paths())
}

func TestSortedByFileName(t *testing.T) {
	c := New()
	c.Add("/z/alpha.txt")
	c.Add("/a/Charlie.txt")
	c.Add("/m/bravo.txt")
	c.Add("/b/alpha.txt")

	assert.Equal(t, []string{
		"/b/alpha.txt",
		"/z/alpha.txt",
		"/m/bravo.txt",
		"/a/Charlie.txt",
	}, c.Sorted())

	// Insertion order is untouched.
	assert.Equal(t, "/z/alpha.txt", c.Paths()[0])
}

func TestTree(t *testing.T) {
	root := filepath.FromSlash("/work/proj")
	c := New()
	c.Add(filepath.Join(root, "src", "b.go"))
	c.Add(filepath.Join(root, "README.md"))
	c.Add(filepath.Join(root, "src", "a.go"))
	c.Add(filepath.Join(root, "docs", "guide", "intro.md"))

	expected := filepath.ToSlash(root) + "/\n" +
		"├── docs/\n" +
		"│   └── guide/\n" +
		"│       └── intro.md\n" +
		"├── src/\n" +
		"│   ├── a.go\n" +
		"│   └── b.go\n" +
		"└── README.md\n"
	assert.Equal(t, expected, c.Tree())
}

func TestTreeSingleFileAndEmpty(t *testing.T) {
	c := New()
	assert.Empty(t, c.Tree())

	c.Add(filepath.FromSlash("/work/notes.txt"))
	require.Equal(t, "/work/\n└── notes.txt\n", filepath.ToSlash(c.Tree()))
}
