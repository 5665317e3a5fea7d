package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mergefiles/pkg/session"

	"golang.org/x/term"
)

var errExists = errors.New("destination already exists (use --force to overwrite)")

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptUser displays a message and waits for the user to enter 'y' or 'n'.
// Returns true if the user enters 'y' or 'yes' (case-insensitive).
func promptUser(in *bufio.Reader, out io.Writer, message string) (bool, error) {
	fmt.Fprint(out, message)
	response, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || response == "") {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// overwritePrompt asks on the given reader before an existing file is replaced.
func overwritePrompt(in *bufio.Reader, out io.Writer) session.ConfirmFunc {
	return func(destination string) (bool, error) {
		return promptUser(in, out, fmt.Sprintf("%s already exists. Overwrite? (y/n): ", destination))
	}
}

// refuseOverwrite is used when nobody can be asked.
func refuseOverwrite(destination string) (bool, error) {
	return false, fmt.Errorf("%s: %w", destination, errExists)
}
