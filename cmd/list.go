package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var tree bool

	listCmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List the files that a merge of the given paths would include",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.newSession()
			reportWarnings(cmd.ErrOrStderr(), s.AddPaths(args))

			out := cmd.OutOrStdout()
			if tree {
				fmt.Fprint(out, s.Tree())
			} else {
				for _, path := range s.Files() {
					fmt.Fprintln(out, path)
				}
			}
			fmt.Fprintf(out, "Total files: %d\n", s.Len())
			return nil
		},
	}

	listCmd.Flags().BoolVar(&tree, "tree", false, "print the files as a directory tree")
	return listCmd
}
