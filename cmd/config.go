package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the allow, ignore and include lists",
		Long: `The rule lists are plain text files, one entry per line. Edit them with any
text editor; changes apply to the next command without a restart.`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create missing configuration files with their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration directory: %s\n", a.settings.Dir)
			if len(a.created) == 0 {
				fmt.Fprintln(out, "All configuration files already exist")
			}
			for _, path := range a.created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration file locations and rule counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			rules := s.Provider(a.logger).Reload()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Settings:     %s\n", s.SettingsPath())
			fmt.Fprintf(out, "Allow list:   %s (%d extensions)\n", s.AllowPath(), len(rules.Extensions))
			fmt.Fprintf(out, "Ignore list:  %s (%d rules)\n", s.IgnorePath(), len(rules.Ignore))
			fmt.Fprintf(out, "Include list: %s (%d rules)\n", s.IncludePath(), len(rules.Include))
			fmt.Fprintf(out, "Prefix:       %s\n", s.Prefix)
			fmt.Fprintf(out, "Output dir:   %s\n", s.OutputDir)
			fmt.Fprintf(out, "Merge order:  %s\n", s.MergeOrder)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
