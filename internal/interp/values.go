package interp

import "strconv"

// IsTruthy applies the language's truthiness projection: none and false
// are falsy, every other value — including 0.0 and "" — is truthy.
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual is structural equality: numbers/strings/booleans compare by
// value, none == none is true, and any cross-type comparison is false.
func IsEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders a runtime value the way `echo` and `print` do.
func Stringify(v any) string {
	if v == nil {
		return "none"
	}
	switch val := v.(type) {
	case float64:
		text := strconv.FormatFloat(val, 'f', -1, 64)
		return text
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case Callable:
		return val.String()
	case *Instance:
		return val.String()
	default:
		return ""
	}
}
