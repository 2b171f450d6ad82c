// Package expand performs tilde and wildcard expansion on argument tokens.
package expand

import (
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// hasWildcard reports whether the token needs a filesystem match.
func hasWildcard(token string) bool {
	return strings.ContainsAny(token, "*?")
}

// Tilde replaces a leading ~ with the session's home directory value.
func Tilde(token, home string) string {
	if home == "" || !strings.HasPrefix(token, "~") {
		return token
	}
	return home + token[1:]
}

// Args expands each argument against the filesystem, preserving the relative
// position of tokens that need no expansion.
//
// Wildcard tokens (* or ?) are replaced by their matches in lexical order. A
// wildcard token matching nothing passes through as the literal token, the
// usual shell convention. Patterns are matched against the live filesystem at
// call time, relative paths resolving through the process working directory.
func Args(fsys afero.Fs, home string, args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		arg = Tilde(arg, home)
		if !hasWildcard(arg) {
			out = append(out, arg)
			continue
		}

		matches, err := afero.Glob(fsys, arg)
		if err != nil || len(matches) == 0 {
			out = append(out, arg)
			continue
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out
}
