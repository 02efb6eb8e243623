package discovery

import (
	"path/filepath"
	"strings"
)

// StdinName is the argument naming standard input
const StdinName = "-"

// ClassifyArg determines how a command-line argument is resolved
func ClassifyArg(arg string) ArgType {
	if arg == StdinName {
		return ArgStdin
	}
	if strings.ContainsAny(arg, "*?[") {
		return ArgGlob
	}
	return ArgPath
}

// ArgType is the shape of a command-line argument
type ArgType int

const (
	ArgPath  ArgType = iota // File or directory
	ArgGlob                 // Shell pattern expanded with filepath.Glob
	ArgStdin                // "-"
)

// IsHidden reports whether a file or directory name starts with a dot
func IsHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// MatchInclude reports whether a file name found in a directory is scanned.
// An empty pattern accepts every file.
func MatchInclude(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	ok, err := filepath.Match(pattern, filepath.Base(name))
	return err == nil && ok
}
