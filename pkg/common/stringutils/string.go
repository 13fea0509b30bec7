package stringutils

import (
	"os"
	"strings"
)

// ExpandTildePath replaces a leading "~" with the user's home directory.
func ExpandTildePath(s string) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return home + s[1:]
}
