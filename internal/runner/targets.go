package runner

import (
	"fmt"

	"github.com/cybertec-postgresql/pgscan/pkg/scn"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// targets holds one scan destination per placeholder, reused for every line
type targets struct {
	kinds []types.ValueKind
	ptrs  []any
}

func newTargets(kinds []types.ValueKind) *targets {
	t := &targets{kinds: kinds, ptrs: make([]any, len(kinds))}
	for i, k := range kinds {
		switch k {
		case types.KindInt:
			t.ptrs[i] = new(int64)
		case types.KindUint:
			t.ptrs[i] = new(uint64)
		case types.KindFloat:
			t.ptrs[i] = new(float64)
		case types.KindBool:
			t.ptrs[i] = new(bool)
		case types.KindChar:
			t.ptrs[i] = new(scn.Char)
		case types.KindSkip:
			t.ptrs[i] = scn.Discard[string]()
		default:
			t.ptrs[i] = new(string)
		}
	}
	return t
}

// values copies out the scanned values, leaving out skipped placeholders
func (t *targets) values() []any {
	out := make([]any, 0, len(t.ptrs))
	for _, p := range t.ptrs {
		switch v := p.(type) {
		case *int64:
			out = append(out, *v)
		case *uint64:
			out = append(out, *v)
		case *float64:
			out = append(out, *v)
		case *bool:
			out = append(out, *v)
		case *scn.Char:
			out = append(out, *v)
		case *string:
			out = append(out, *v)
		}
	}
	return out
}

// Columns returns the names of the kept columns: the given names when
// present, otherwise the kind and position such as "int_1"
func Columns(kinds []types.ValueKind, names []string) []string {
	var out []string
	for i, k := range kinds {
		if k == types.KindSkip {
			continue
		}
		if i < len(names) && names[i] != "" {
			out = append(out, names[i])
		} else {
			out = append(out, fmt.Sprintf("%s_%d", k, i+1))
		}
	}
	return out
}
