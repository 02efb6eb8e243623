package discovery

import "time"

// Source is an input discovered from the command-line arguments
type Source struct {
	Path         string     // Absolute path to file, "-" for stdin
	RelativePath string     // Path as shown in records and messages
	Type         SourceType // File or standard input
	ModTime      time.Time  // Last modification time, zero for stdin
}

// SourceType tells how a source is opened
type SourceType int

const (
	SourceFile  SourceType = iota // Regular file
	SourceStdin                   // Named "-" on the command line
)

// String returns a string representation of SourceType
func (st SourceType) String() string {
	switch st {
	case SourceFile:
		return "file"
	case SourceStdin:
		return "stdin"
	default:
		return "unknown"
	}
}
