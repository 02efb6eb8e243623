package scn

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/pgscan/internal/stdin"
)

// Input scans from standard input. Every call shares one buffered view of
// stdin, so input left over by one call is seen by the next.
func Input(f string, args ...any) Result {
	return std.InputFrom(stdin.Default(), f, args...)
}

// Prompt writes p to standard output and then scans from standard input
func Prompt(p string, f string, args ...any) Result {
	return std.PromptTo(os.Stdout, stdin.Default(), p, f, args...)
}

// InputFrom scans from the shared range r with a brace format
func (s *Scanner) InputFrom(r *stdin.Range, f string, args ...any) Result {
	c := r.Lock()
	defer r.Unlock()
	return s.Scan(c, f, args...)
}

// PromptTo writes p to w and then scans from r
func (s *Scanner) PromptTo(w io.Writer, r *stdin.Range, p string, f string, args ...any) Result {
	fmt.Fprint(w, p)
	return s.InputFrom(r, f, args...)
}
