// Package settings locates the configuration directory and loads the
// settings file and the rule lists it points to.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mergefiles/pkg/filter"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const (
	// EnvConfigDir overrides the default configuration directory.
	EnvConfigDir = "MERGEFILES_CONFIG_DIR"
	// FileName is the settings file inside the configuration directory.
	FileName = "settings.toml"

	appDirName = "mergefiles"
)

// Merge orders.
const (
	OrderInsertion = "insertion" // Order in which files were added.
	OrderName      = "name"      // Display order, by file name.
)

// Settings holds the application's configurable values.
type Settings struct {
	AllowFile   string `toml:"allow_file"`
	IgnoreFile  string `toml:"ignore_file"`
	IncludeFile string `toml:"include_file"`
	Prefix      string `toml:"prefix"`
	OutputDir   string `toml:"output_dir"`
	MergeOrder  string `toml:"merge_order"`
	LogLevel    string `toml:"log_level"`

	Dir string `toml:"-"` // Configuration directory the settings were loaded from.
}

// Defaults returns the built-in settings for the configuration directory dir.
func Defaults(dir string) Settings {
	return Settings{
		AllowFile:   "allow.txt",
		IgnoreFile:  "ignore.txt",
		IncludeFile: "include.txt",
		Prefix:      "MergedFiles",
		OutputDir:   ".",
		MergeOrder:  OrderInsertion,
		LogLevel:    "warn",
		Dir:         dir,
	}
}

// ResolveDir picks the configuration directory: the explicit value if set,
// then $MERGEFILES_CONFIG_DIR, then <user config dir>/mergefiles.
func ResolveDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		dir = os.Getenv(EnvConfigDir)
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine user config directory: %w", err)
		}
		dir = filepath.Join(base, appDirName)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid config directory %q: %w", dir, err)
	}
	return abs, nil
}

// Load reads settings.toml from dir over the defaults. A missing file is not
// an error. On a malformed file the defaults are returned with the error.
func Load(dir string, logger *zap.Logger) (Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := Defaults(dir)
	path := filepath.Join(dir, FileName)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("No settings file found, using defaults", zap.String("path", path))
			return cfg, nil
		}
		return Defaults(dir), fmt.Errorf("error reading settings file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(content), &cfg)
	if err != nil {
		return Defaults(dir), fmt.Errorf("error decoding TOML from %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		logger.Warn("Unrecognized keys found in settings file", zap.String("path", path), zap.Strings("keys", keys))
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return Defaults(dir), fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	logger.Debug("Settings loaded",
		zap.String("path", path),
		zap.String("allowFile", cfg.AllowPath()),
		zap.String("ignoreFile", cfg.IgnorePath()),
		zap.String("includeFile", cfg.IncludePath()),
		zap.String("mergeOrder", cfg.MergeOrder))
	return cfg, nil
}

// Validate checks values that have a fixed set of options.
func (s Settings) Validate() error {
	if err := ValidateOrder(s.MergeOrder); err != nil {
		return err
	}
	if s.AllowFile == "" || s.IgnoreFile == "" || s.IncludeFile == "" {
		return errors.New("allow_file, ignore_file and include_file must not be empty")
	}
	return nil
}

// ValidateOrder accepts "insertion" and "name".
func ValidateOrder(order string) error {
	switch order {
	case OrderInsertion, OrderName:
		return nil
	}
	return fmt.Errorf("unknown merge order %q (want %q or %q)", order, OrderInsertion, OrderName)
}

// AllowPath is the allow-list location.
func (s Settings) AllowPath() string { return s.resolve(s.AllowFile) }

// IgnorePath is the ignore-list location.
func (s Settings) IgnorePath() string { return s.resolve(s.IgnoreFile) }

// IncludePath is the include-list location.
func (s Settings) IncludePath() string { return s.resolve(s.IncludeFile) }

// SettingsPath is the settings file location.
func (s Settings) SettingsPath() string { return filepath.Join(s.Dir, FileName) }

// Provider returns a rule provider that reads the three lists from disk on every reload.
func (s Settings) Provider(logger *zap.Logger) *filter.FileProvider {
	return filter.NewFileProvider(s.AllowPath(), s.IgnorePath(), s.IncludePath(), logger)
}

func (s Settings) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Dir, path)
}
