package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// DefaultAllow is written to a new allow-list.
var DefaultAllow = []string{
	".c", ".cpp", ".h", ".hpp", ".cs", ".js", ".ts", ".tsx", ".css", ".xaml", ".xml", ".json",
	".html", ".md", ".ini", ".cfg", ".py", ".sql", ".shader", ".cshtml", ".csproj", ".sln",
	".slnx", ".ps1", ".gitignore", ".kt", ".txt", ".projbuild", ".overlay", ".conf",
	".dts", ".dtsi", ".yaml", ".yml", ".cmake", ".indir",
}

// DefaultIgnore is written to a new ignore-list.
var DefaultIgnore = []string{
	"bin", "obj", "node_modules", "wwwroot/vendor", "wwwroot/vendors",
	"Lib", "build", "logs", ".claude", ".vs",
}

// DefaultInclude is written to a new include-list.
var DefaultInclude = []string{
	"# Include specific files from ignored folders",
	"# Use relative paths (e.g., build/zephyr/zephyr.dts)",
	"",
}

// EnsureFiles creates the configuration directory, the settings file and the
// three rule lists with their defaults when they do not exist yet. Existing
// files are never touched. It returns the paths it created.
func EnsureFiles(s Settings, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		logger.Error("Failed to create config directory", zap.String("path", s.Dir), zap.Error(err))
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	var created []string
	lists := []struct {
		path  string
		lines []string
	}{
		{s.AllowPath(), DefaultAllow},
		{s.IgnorePath(), DefaultIgnore},
		{s.IncludePath(), DefaultInclude},
	}
	for _, list := range lists {
		ok, err := writeIfAbsent(list.path, func(f *os.File) error {
			_, err := f.WriteString(strings.Join(list.lines, "\n") + "\n")
			return err
		})
		if err != nil {
			return created, err
		}
		if ok {
			logger.Info("Created rule file with defaults", zap.String("path", list.path))
			created = append(created, list.path)
		}
	}

	ok, err := writeIfAbsent(s.SettingsPath(), func(f *os.File) error {
		return toml.NewEncoder(f).Encode(s)
	})
	if err != nil {
		return created, err
	}
	if ok {
		logger.Info("Created settings file", zap.String("path", s.SettingsPath()))
		created = append(created, s.SettingsPath())
	}
	return created, nil
}

// writeIfAbsent creates path exclusively and fills it with write.
func writeIfAbsent(path string, write func(*os.File) error) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return true, nil
}
