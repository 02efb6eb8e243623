package report

import (
	"fmt"
	"strconv"

	"github.com/cybertec-postgresql/pgscan/internal/scanner"
)

// ToString renders a scanned value for the text and CSV formats
func ToString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case scanner.Char:
		return string(rune(v))
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// jsonValue maps a scanned value onto what the JSON encoder should see
func jsonValue(v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case scanner.Char:
		return string(rune(v))
	}
	return v
}
