package scn

import (
	"bytes"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/reconstruct"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Getline reads up to the delimiter until into target, which must be a
// *string, *[]byte, or *View. The delimiter is consumed but not stored.
// A *View binds into the input without copying and therefore needs
// contiguous input.
func (s *Scanner) Getline(in any, target any, until byte) Result {
	input, err := reconstruct.Wrap(in, s.putback)
	if err != nil {
		return reconstruct.Failed(err)
	}
	c := input.Cursor()

	if err := getline(c, target, until); err != nil {
		if rerr := c.ResetToRollbackPoint(); rerr != nil {
			err = rerr
		}
		return reconstruct.Finish(input, err, 0)
	}
	c.SetRollbackPoint()
	return reconstruct.Finish(input, nil, 1)
}

// GetlineDefault reads one newline-terminated line
func (s *Scanner) GetlineDefault(in any, target any) Result {
	return s.Getline(in, target, '\n')
}

func getline(c *cursor.Cursor, target any, until byte) error {
	switch t := target.(type) {
	case *cursor.View:
		return getlineView(c, t, until)
	case *string:
		line, err := readLine(c, until)
		if err != nil {
			return err
		}
		*t = string(line)
		return nil
	case *[]byte:
		line, err := readLine(c, until)
		if err != nil {
			return err
		}
		*t = append((*t)[:0], line...)
		return nil
	}
	return types.Errorf(types.InvalidOperation, "cannot read a line into %T", target)
}

func getlineView(c *cursor.Cursor, v *cursor.View, until byte) error {
	data, ok := c.Data()
	if !ok {
		return types.Errorf(types.InvalidOperation, "cannot take a view of a %s source", c.Kind())
	}
	if data.Len() == 0 {
		return types.NewError(types.EndOfRange, "")
	}

	n := bytes.IndexByte(data.Bytes(), until)
	if n < 0 {
		*v = data
		c.Advance(data.Len())
		return nil
	}
	*v = data.Slice(0, n)
	c.Advance(n + 1)
	return nil
}

// readLine consumes through the delimiter and returns what came before it.
// End of input terminates the last line.
func readLine(c *cursor.Cursor, until byte) ([]byte, error) {
	var line []byte
	for {
		// Take whole buffered runs where the source allows it
		if buf := c.Buffered(); len(buf) > 0 {
			if i := bytes.IndexByte(buf, until); i >= 0 {
				line = append(line, buf[:i]...)
				c.Advance(i + 1)
				return line, nil
			}
			line = append(line, buf...)
			c.Advance(len(buf))
			continue
		}

		b, err := c.ReadByte()
		if err != nil {
			if types.AsError(err).Kind == types.EndOfRange && line != nil {
				return line, nil
			}
			return nil, err
		}
		if b == until {
			return line, nil
		}
		line = append(line, b)
	}
}

// IgnoreUntil skips input through the next occurrence of until
func (s *Scanner) IgnoreUntil(in any, until byte) Result {
	return s.ignore(in, -1, until)
}

// IgnoreUntilN skips input through the next occurrence of until, or n
// bytes, whichever comes first
func (s *Scanner) IgnoreUntilN(in any, n int, until byte) Result {
	return s.ignore(in, n, until)
}

func (s *Scanner) ignore(in any, n int, until byte) Result {
	input, err := reconstruct.Wrap(in, s.putback)
	if err != nil {
		return reconstruct.Failed(err)
	}
	c := input.Cursor()

	for i := 0; n < 0 || i < n; i++ {
		b, err := c.ReadByte()
		if err != nil {
			if rerr := c.ResetToRollbackPoint(); rerr != nil {
				err = rerr
			}
			return reconstruct.Finish(input, err, 0)
		}
		if b == until {
			break
		}
	}
	c.SetRollbackPoint()
	return reconstruct.Finish(input, nil, 0)
}

// Getline reads a line delimited by until with the default scanner
func Getline(in any, target any, until byte) Result {
	return std.Getline(in, target, until)
}

// GetlineDefault reads a newline-terminated line with the default scanner
func GetlineDefault(in any, target any) Result {
	return std.GetlineDefault(in, target)
}

// IgnoreUntil skips through until with the default scanner
func IgnoreUntil(in any, until byte) Result {
	return std.IgnoreUntil(in, until)
}

// IgnoreUntilN skips through until, or n bytes, with the default scanner
func IgnoreUntilN(in any, n int, until byte) Result {
	return std.IgnoreUntilN(in, n, until)
}
