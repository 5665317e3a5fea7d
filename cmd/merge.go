package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"mergefiles/pkg/merge"
	"mergefiles/pkg/session"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// mergeFlags holds the flags shared by merge-like commands.
type mergeFlags struct {
	prefix string
	outDir string
	order  string
	force  bool
}

func (f *mergeFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.prefix, "prefix", "p", "", "output file name prefix (default from settings)")
	fs.StringVarP(&f.outDir, "out-dir", "o", "", "output directory (default from settings)")
	fs.StringVar(&f.order, "order", "", `merge order, "insertion" or "name" (default from settings)`)
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing output file without asking")
}

// options fills unset flags from settings.
func (f *mergeFlags) options(fs *pflag.FlagSet, a *app) (dir, prefix string, opts session.MergeOptions) {
	dir, prefix, opts.Order = a.settings.OutputDir, a.settings.Prefix, a.settings.MergeOrder
	if fs.Changed("out-dir") {
		dir = f.outDir
	}
	if fs.Changed("prefix") {
		prefix = f.prefix
	}
	if fs.Changed("order") {
		opts.Order = f.order
	}
	return dir, prefix, opts
}

func newMergeCmd(a *app) *cobra.Command {
	flags := &mergeFlags{}

	mergeCmd := &cobra.Command{
		Use:   "merge [paths...]",
		Short: "Merge the accepted files under the given paths into one file",
		Long: `Add every file and folder given on the command line, keep the files accepted
by the allow, ignore and include lists, and write them to
<out-dir>/<prefix><YYMMDDHHMM>.txt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.newSession()
			reportWarnings(cmd.ErrOrStderr(), s.AddPaths(args))

			dir, prefix, opts := flags.options(cmd.Flags(), a)
			switch {
			case flags.force:
			case isTerminal(cmd.InOrStdin()):
				opts.Confirm = overwritePrompt(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
			default:
				opts.Confirm = refuseOverwrite
			}

			destination, err := s.Merge(dir, prefix, opts)
			if err != nil {
				return explainMergeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d files into %s\n", s.Len(), destination)
			return nil
		},
	}

	flags.register(mergeCmd.Flags())
	return mergeCmd
}

func reportWarnings(w io.Writer, result session.AddResult) {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %v\n", warning)
	}
}

// explainMergeError turns validation failures into user-facing messages.
func explainMergeError(err error) error {
	switch {
	case errors.Is(err, merge.ErrNoFiles):
		return errors.New("no files selected: nothing matched the allow, ignore and include lists")
	case errors.Is(err, merge.ErrNoPrefix):
		return errors.New("please enter a file name prefix")
	}
	return err
}
