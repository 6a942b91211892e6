package model

import (
	"fmt"
	"strconv"
)

// Stringify renders a stored value the way a browser coerces it to a string,
// which is how values appear in query strings and pattern checks.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return FormatNumber(v)
	case float32:
		return FormatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// FormatNumber prints the shortest decimal representation of v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
