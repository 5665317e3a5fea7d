package cmd

import (
	"fmt"

	"mergefiles/pkg/filter"
	"mergefiles/pkg/logging"
	"mergefiles/pkg/merge"
	"mergefiles/pkg/session"
	"mergefiles/pkg/settings"
	"mergefiles/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const skipBootstrap = "skipBootstrap"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configDir string
	debug     bool

	settings settings.Settings
	created  []string // Configuration files created with defaults by this run.
	logger   *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "mergefiles",
		Short: "mergefiles concatenates selected files into one text file",
		Long: `mergefiles collects files and folders, filters them by an extension allow-list,
folder ignore rules and include overrides, and merges their text into a single
UTF-8 file with a "===== name =====" header per file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipBootstrap] == "true" {
				return nil
			}
			return a.bootstrap()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default $"+settings.EnvConfigDir+" or <user config dir>/mergefiles)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newMergeCmd(a),
		newListCmd(a),
		newShellCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// bootstrap loads settings, configures logging and creates missing rule files.
func (a *app) bootstrap() error {
	if err := logging.Setup(a.debug, "warn", "mergefiles", version.Version); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logging.Logger

	dir, err := settings.ResolveDir(a.configDir)
	if err != nil {
		return err
	}

	cfg, err := settings.Load(dir, a.logger)
	if err != nil {
		a.logger.Error("Failed to load settings, using defaults", zap.Error(err))
	}
	a.settings = cfg

	if !a.debug && cfg.LogLevel != "warn" {
		if err := logging.Setup(false, cfg.LogLevel, "mergefiles", version.Version); err != nil {
			a.logger.Warn("Invalid log level in settings", zap.String("logLevel", cfg.LogLevel), zap.Error(err))
		} else {
			a.logger = logging.Logger
		}
	}

	a.created, err = settings.EnsureFiles(cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to prepare configuration: %w", err)
	}
	return nil
}

func (a *app) newSession() *session.Session {
	f := filter.New(a.settings.Provider(a.logger), a.logger)
	return session.New(f, merge.NewEngine(a.logger), a.logger)
}
