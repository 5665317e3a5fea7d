// Package filter decides which files take part in a merge, based on an
// extension allow-list, folder ignore rules and include-path overrides.
package filter

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Filter classifies paths against the rules of its provider. Each call
// reloads the rules, so nothing is cached between calls.
type Filter struct {
	provider RuleSetProvider
	logger   *zap.Logger
}

// New creates a Filter. A nil logger disables logging.
func New(provider RuleSetProvider, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{provider: provider, logger: logger}
}

// IsAllowed reports whether the file extension is in the allow-list.
func (f *Filter) IsAllowed(path string) bool {
	return f.provider.Reload().Allowed(path)
}

// IsIgnored reports whether the path falls under an ignored folder.
func (f *Filter) IsIgnored(path string) bool {
	return f.provider.Reload().Ignored(path)
}

// IsIncluded reports whether the path matches an include override.
func (f *Filter) IsIncluded(path string) bool {
	return f.provider.Reload().Included(path)
}

// Accept applies the composed acceptance policy against a single reload.
func (f *Filter) Accept(path string) bool {
	return f.accepts(f.provider.Reload(), path)
}

func (f *Filter) accepts(rs *RuleSet, path string) bool {
	if !rs.Allowed(path) {
		f.logger.Debug("File extension not allowed", zap.String("file", path))
		return false
	}
	if rs.Included(path) {
		f.logger.Debug("File matches include rule", zap.String("file", path))
		return true
	}
	if rs.Ignored(path) {
		f.logger.Debug("File matches ignore rule", zap.String("file", path))
		return false
	}
	return true
}

// EnumerateEligibleFiles yields the accepted files under root in sorted order.
// A file root is checked directly. Unreadable subdirectories are skipped and
// reported as a single error after the last accepted path. The sequence holds
// no state: ranging over it again walks the filesystem with fresh rules.
func (f *Filter) EnumerateEligibleFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rs := f.provider.Reload()

		absRoot, err := filepath.Abs(root)
		if err != nil {
			yield("", fmt.Errorf("failed to resolve path %q: %w", root, err))
			return
		}

		info, err := os.Stat(absRoot)
		if err != nil {
			yield("", fmt.Errorf("cannot access %s: %w", absRoot, err))
			return
		}

		if !info.IsDir() {
			if f.accepts(rs, absRoot) {
				yield(absRoot, nil)
			}
			return
		}

		files, walkErr := collectFiles(absRoot, f.logger)
		for _, path := range files {
			if !f.accepts(rs, path) {
				continue
			}
			if !yield(path, nil) {
				return
			}
		}
		if walkErr != nil {
			yield("", fmt.Errorf("could not read folder %s: %w", absRoot, walkErr))
		}
	}
}

// collectFiles lists every non-directory entry below root, sorted by full path.
// A root that is a symlink is walked through its target; the returned paths
// stay under root.
func collectFiles(root string, logger *zap.Logger) ([]string, error) {
	var (
		files []string
		errs  error
	)
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}
	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			errs = multierr.Append(errs, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || target.IsDir() {
				logger.Debug("Skipping symlink", zap.String("path", path))
				return nil
			}
		}
		if walkRoot != root {
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				errs = multierr.Append(errs, err)
				return nil
			}
			path = filepath.Join(root, rel)
		}
		files = append(files, path)
		return nil
	})
	errs = multierr.Append(errs, walkErr)

	sort.Strings(files)
	logger.Debug("Collected files", zap.String("root", root), zap.Int("count", len(files)))
	return files, errs
}
