package workspace

import (
	"path/filepath"
	"regexp"
	"strings"
)

// traversalPattern matches ".." as its own segment, bounded by either
// separator style or by the start/end of the string.
var traversalPattern = regexp.MustCompile(`(^|[/\\])\.\.($|[/\\])`)

// IsInvalid reports whether a caller-supplied name contains a parent
// directory segment. The raw string is checked, never a cleaned one, so
// "a/../a" is rejected even though it would land inside the root.
func IsInvalid(path string) bool {
	return traversalPattern.MatchString(path)
}

// isAbsolute catches both the host's absolute form and the other
// separator style, so "C:\x" and "\\host\share" are refused on Linux too.
func isAbsolute(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return true
	}
	return len(path) >= 2 && path[1] == ':' && isDriveLetter(path[0])
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isRootName reports names that refer to the root itself. Whitespace is
// significant: " " is an ordinary file name.
func isRootName(path string) bool {
	return path == "/" || path == `\` || filepath.Clean(path) == "."
}
