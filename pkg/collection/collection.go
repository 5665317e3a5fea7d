// Package collection keeps the ordered, case-insensitively deduplicated list
// of files selected for a merge.
package collection

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// FileCollection holds absolute file paths in insertion order. Two paths that
// differ only by case are the same entry.
type FileCollection struct {
	paths []string
	index map[string]struct{}
}

// New returns an empty collection.
func New() *FileCollection {
	return &FileCollection{index: make(map[string]struct{})}
}

// Add appends path unless an entry equal under case folding exists.
// It reports whether the path was added.
func (c *FileCollection) Add(path string) bool {
	key := foldKey(path)
	if _, ok := c.index[key]; ok {
		return false
	}
	c.index[key] = struct{}{}
	c.paths = append(c.paths, path)
	return true
}

// Remove deletes the entry matching path case-insensitively.
func (c *FileCollection) Remove(path string) bool {
	key := foldKey(path)
	if _, ok := c.index[key]; !ok {
		return false
	}
	delete(c.index, key)
	c.paths = slices.DeleteFunc(c.paths, func(p string) bool { return foldKey(p) == key })
	return true
}

// Contains reports whether an equal entry exists, ignoring case.
func (c *FileCollection) Contains(path string) bool {
	_, ok := c.index[foldKey(path)]
	return ok
}

// Clear empties the collection.
func (c *FileCollection) Clear() {
	c.paths = nil
	c.index = make(map[string]struct{})
}

// Len returns the number of entries.
func (c *FileCollection) Len() int {
	return len(c.paths)
}

// Paths returns a copy of the entries in insertion order.
func (c *FileCollection) Paths() []string {
	return slices.Clone(c.paths)
}

// Sorted returns a copy of the entries in display order: by file name
// ignoring case, ties broken by full path.
func (c *FileCollection) Sorted() []string {
	sorted := slices.Clone(c.paths)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi := strings.ToLower(filepath.Base(sorted[i]))
		bj := strings.ToLower(filepath.Base(sorted[j]))
		if bi != bj {
			return bi < bj
		}
		return foldKey(sorted[i]) < foldKey(sorted[j])
	})
	return sorted
}

func foldKey(path string) string {
	return strings.ToLower(path)
}
