// Package merge concatenates text files into a single UTF-8 output with a
// header line per file.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	// ErrNoFiles is returned when a merge is requested with no input files.
	ErrNoFiles = errors.New("no files to merge")
	// ErrLocked is returned when another process holds the destination file.
	ErrLocked = errors.New("destination file is locked by another process")
)

// Engine writes merged output files.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Header returns the delimiter line written before a file's content.
func Header(path string) string {
	return fmt.Sprintf("===== %s =====", filepath.Base(path))
}

// Merge writes every path, in order, to destination. The destination is
// created or overwritten under an exclusive lock and closed before return.
// A failure part way leaves the partially written file in place.
func (e *Engine) Merge(paths []string, destination string) (err error) {
	if len(paths) == 0 {
		return ErrNoFiles
	}

	e.logger.Debug("Writing merged content to output file", zap.String("destination", destination), zap.Int("files", len(paths)))

	outFile, err := openExclusive(destination)
	if err != nil {
		e.logger.Error("Failed to open output file", zap.String("file", destination), zap.Error(err))
		return err
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			e.logger.Error("Failed to close output file", zap.String("file", destination), zap.Error(closeErr))
			if err == nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}
	}()

	writer := bufio.NewWriter(outFile)
	for _, path := range paths {
		if err := e.writeSection(writer, path); err != nil {
			_ = writer.Flush()
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		e.logger.Error("Failed to flush output file", zap.String("file", destination), zap.Error(err))
		return fmt.Errorf("failed to flush output: %w", err)
	}

	e.logger.Info("Merged files", zap.String("destination", destination), zap.Int("totalFiles", len(paths)))
	return nil
}

func (e *Engine) writeSection(writer *bufio.Writer, path string) error {
	text, err := ReadText(path)
	if err != nil {
		e.logger.Error("Failed to read source file", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("error reading file %s: %w", path, err)
	}
	if text.Fallback {
		e.logger.Warn("Could not decode file, read as UTF-8 instead", zap.String("file", path))
	}
	e.logger.Debug("Read source file", zap.String("file", path), zap.String("encoding", text.Encoding))

	if _, err := fmt.Fprintf(writer, "%s\n\n%s\n\n", Header(path), text.Content); err != nil {
		e.logger.Error("Failed to write content to merged file", zap.String("contentPath", path), zap.Error(err))
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// openExclusive opens path for writing, takes a non-blocking exclusive lock
// and only then truncates it, so a locked file is never clobbered.
func openExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, path, err)
	}
	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to truncate output file: %w", err)
	}
	return f, nil
}
