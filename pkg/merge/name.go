package merge

import (
	"errors"
	"strings"
	"time"
)

// ErrNoPrefix is returned when the output file name prefix is blank.
var ErrNoPrefix = errors.New("file name prefix is required")

const (
	timestampLayout = "0601021504" // YYMMDDHHMM, 24-hour clock
	outputExt       = ".txt"
)

// SanitizePrefix trims prefix and replaces characters that are invalid in
// file names on common filesystems with '_'.
func SanitizePrefix(prefix string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(prefix))
}

// OutputName builds "<prefix><YYMMDDHHMM>.txt" for a merge started at now.
func OutputName(prefix string, now time.Time) (string, error) {
	sanitized := SanitizePrefix(prefix)
	if sanitized == "" {
		return "", ErrNoPrefix
	}
	return sanitized + now.Format(timestampLayout) + outputExt, nil
}
