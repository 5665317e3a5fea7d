//go:build unix

package merge

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes an advisory exclusive lock, failing at once if it is held.
// The lock is released when the file is closed.
func lockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}
