// Package session binds a FileCollection to a filter and a merge engine and
// exposes the commands a front-end issues: add, remove, clear and merge.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mergefiles/pkg/collection"
	"mergefiles/pkg/filter"
	"mergefiles/pkg/merge"
	"mergefiles/pkg/settings"

	"go.uber.org/zap"
)

// ErrCanceled is returned when the user declines to overwrite an existing destination.
var ErrCanceled = errors.New("merge canceled")

// ConfirmFunc asks whether an existing destination may be overwritten.
type ConfirmFunc func(destination string) (bool, error)

// Warning is a per-root problem reported by AddPaths. Processing continues
// with the remaining roots.
type Warning struct {
	Root string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Root, w.Err)
}

// AddResult summarizes one AddPaths call.
type AddResult struct {
	Added    int // Files newly added to the collection.
	Accepted int // Files that passed the filter, including ones already present.
	Warnings []Warning
}

// MergeOptions controls a single merge.
type MergeOptions struct {
	Order   string      // settings.OrderInsertion (default) or settings.OrderName.
	Confirm ConfirmFunc // Called when the destination exists; nil overwrites.
}

// Session holds the files selected for the next merge.
type Session struct {
	filter *filter.Filter
	engine *merge.Engine
	files  *collection.FileCollection
	logger *zap.Logger
	now    func() time.Time
}

// New creates an empty session. A nil logger disables logging.
func New(f *filter.Filter, engine *merge.Engine, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		filter: f,
		engine: engine,
		files:  collection.New(),
		logger: logger,
		now:    time.Now,
	}
}

// AddPaths enumerates every path and adds the accepted files. A root that
// cannot be read is reported in the result and does not stop the others.
func (s *Session) AddPaths(paths []string) AddResult {
	var result AddResult
	for _, root := range paths {
		for path, err := range s.filter.EnumerateEligibleFiles(root) {
			if err != nil {
				s.logger.Warn("Failed to enumerate path", zap.String("root", root), zap.Error(err))
				result.Warnings = append(result.Warnings, Warning{Root: root, Err: err})
				continue
			}
			result.Accepted++
			if s.files.Add(path) {
				result.Added++
			}
		}
	}
	s.logger.Debug("Added paths",
		zap.Int("roots", len(paths)),
		zap.Int("added", result.Added),
		zap.Int("accepted", result.Accepted),
		zap.Int("total", s.files.Len()))
	return result
}

// RemovePaths removes entries equal to the given paths, ignoring case.
// Relative paths are resolved against the working directory.
func (s *Session) RemovePaths(paths []string) int {
	removed := 0
	for _, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if s.files.Remove(path) {
			removed++
		}
	}
	s.logger.Debug("Removed paths", zap.Int("removed", removed), zap.Int("total", s.files.Len()))
	return removed
}

// Clear empties the session.
func (s *Session) Clear() {
	s.files.Clear()
	s.logger.Debug("Cleared file list")
}

// Files returns the selected files in display order.
func (s *Session) Files() []string {
	return s.files.Sorted()
}

// Len returns the number of selected files.
func (s *Session) Len() int {
	return s.files.Len()
}

// Tree renders the selected files as a directory tree.
func (s *Session) Tree() string {
	return s.files.Tree()
}

// Merge writes the selected files to "<prefix><YYMMDDHHMM>.txt" inside dir
// and returns the destination path. Empty selections and blank prefixes are
// rejected before any file is touched.
func (s *Session) Merge(dir, prefix string, opts MergeOptions) (string, error) {
	if s.files.Len() == 0 {
		return "", merge.ErrNoFiles
	}
	name, err := merge.OutputName(prefix, s.now())
	if err != nil {
		return "", err
	}
	order := opts.Order
	if order == "" {
		order = settings.OrderInsertion
	}
	if err := settings.ValidateOrder(order); err != nil {
		return "", err
	}

	destination, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("invalid output directory %q: %w", dir, err)
	}

	if _, err := os.Stat(destination); err == nil && opts.Confirm != nil {
		ok, err := opts.Confirm(destination)
		if err != nil {
			return "", fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			s.logger.Info("Overwrite declined", zap.String("destination", destination))
			return "", ErrCanceled
		}
	}

	paths := s.files.Paths()
	if order == settings.OrderName {
		paths = s.files.Sorted()
	}
	if err := s.engine.Merge(paths, destination); err != nil {
		return "", fmt.Errorf("failed to merge into %s: %w", destination, err)
	}
	return destination, nil
}
