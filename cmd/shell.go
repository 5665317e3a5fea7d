package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"mergefiles/pkg/session"

	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  add <path>...       add files and folders (filtered)
  remove <path>...    remove files from the list
  clear               remove all files
  list                show the selected files
  tree                show the selected files as a tree
  merge [prefix]      merge the selected files
  help                show this help
  quit                leave the shell
`

func newShellCmd(a *app) *cobra.Command {
	flags := &mergeFlags{}

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Build a file list interactively and merge it",
		Long: `Start a line-oriented session holding one file list. Paths containing spaces
can be quoted with double quotes.

` + shellHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{
				app:     a,
				session: a.newSession(),
				flags:   flags,
				cmd:     cmd,
				in:      bufio.NewReader(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
			}
			return sh.run()
		},
	}

	flags.register(shellCmd.Flags())
	return shellCmd
}

type shell struct {
	app     *app
	session *session.Session
	flags   *mergeFlags
	cmd     *cobra.Command
	in      *bufio.Reader
	out     io.Writer
}

func (sh *shell) run() error {
	for {
		fmt.Fprint(sh.out, "> ")
		line, err := sh.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read command: %w", err)
		}
		if done := sh.execute(line); done {
			return nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(sh.out)
			return nil
		}
	}
}

// execute runs one command line and reports whether the shell should exit.
func (sh *shell) execute(line string) bool {
	words, err := splitWords(line)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return false
	}
	if len(words) == 0 {
		return false
	}

	command, args := strings.ToLower(words[0]), words[1:]
	switch command {
	case "add":
		result := sh.session.AddPaths(args)
		reportWarnings(sh.out, result)
		fmt.Fprintf(sh.out, "Added %d files (total %d)\n", result.Added, sh.session.Len())
	case "remove", "rm":
		removed := sh.session.RemovePaths(args)
		fmt.Fprintf(sh.out, "Removed %d files (total %d)\n", removed, sh.session.Len())
	case "clear":
		sh.session.Clear()
		fmt.Fprintln(sh.out, "Cleared file list")
	case "list", "ls":
		for _, path := range sh.session.Files() {
			fmt.Fprintln(sh.out, path)
		}
		fmt.Fprintf(sh.out, "Total files: %d\n", sh.session.Len())
	case "tree":
		fmt.Fprint(sh.out, sh.session.Tree())
	case "merge":
		sh.merge(args)
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(sh.out, "Unknown command %q, type help for a list\n", command)
	}
	return false
}

func (sh *shell) merge(args []string) {
	dir, prefix, opts := sh.flags.options(sh.cmd.Flags(), sh.app)
	if len(args) > 0 {
		prefix = strings.Join(args, " ")
	}
	if !sh.flags.force {
		opts.Confirm = overwritePrompt(sh.in, sh.out)
	}

	destination, err := sh.session.Merge(dir, prefix, opts)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", explainMergeError(err))
		return
	}
	fmt.Fprintf(sh.out, "Merged %d files into %s\n", sh.session.Len(), destination)
}

// splitWords splits a command line on white space. Double quotes group
// words, so Windows paths keep their backslashes.
func splitWords(line string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quoted  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case unicode.IsSpace(r) && !quoted:
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}
