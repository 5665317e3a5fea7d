package collection

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
	isFile   bool
}

// Tree renders the collection as a directory tree rooted at the deepest
// directory shared by all entries. Directories are listed before files.
func (c *FileCollection) Tree() string {
	if len(c.paths) == 0 {
		return ""
	}

	base := commonDir(c.paths)
	root := &treeNode{children: make(map[string]*treeNode)}
	for _, path := range c.paths {
		rel, err := filepath.Rel(base, path)
		if err != nil {
			rel = path
		}
		insert(root, strings.Split(filepath.ToSlash(rel), "/"))
	}

	var treeBuilder strings.Builder
	treeBuilder.WriteString(fmt.Sprintf("%s/\n", strings.TrimSuffix(filepath.ToSlash(base), "/")))
	writeTree(&treeBuilder, root, "")
	return treeBuilder.String()
}

func insert(node *treeNode, parts []string) {
	for i, part := range parts {
		if part == "" {
			continue
		}
		child, ok := node.children[part]
		if !ok {
			child = &treeNode{name: part, children: make(map[string]*treeNode)}
			node.children[part] = child
		}
		if i == len(parts)-1 {
			child.isFile = true
		}
		node = child
	}
}

func writeTree(b *strings.Builder, node *treeNode, prefix string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, child)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isFile != entries[j].isFile {
			return !entries[i].isFile
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}
		if entry.isFile {
			b.WriteString(prefix + connector + entry.name + "\n")
			continue
		}
		b.WriteString(prefix + connector + entry.name + "/\n")
		writeTree(b, entry, prefix+extension)
	}
}

// commonDir returns the deepest directory containing every path.
func commonDir(paths []string) string {
	dir := filepath.Dir(paths[0])
	for _, path := range paths[1:] {
		for !within(path, dir) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
