// Package attrs reads values back out of slog-style key/value lists.
package attrs

import "fmt"

// ExtractString returns the value logged under key. Strings are returned as
// is and fmt.Stringer values (ids, addresses) are rendered; anything else, or
// a missing key, yields "". The last occurrence of a key wins, as in slog.
func ExtractString(kvs []any, key string) string {
	out := ""
	for i := 0; i+1 < len(kvs); i += 2 {
		if k, ok := kvs[i].(string); !ok || k != key {
			continue
		}
		switch v := kvs[i+1].(type) {
		case string:
			out = v
		case fmt.Stringer:
			out = v.String()
		default:
			out = ""
		}
	}
	return out
}
