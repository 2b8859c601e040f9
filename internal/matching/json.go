package matching

import (
	"github.com/ohler55/ojg/oj"
)

// ParseJSON parses a request body. Returns false when the body is empty or
// not valid JSON.
func ParseJSON(body []byte) (any, bool) {
	if len(body) == 0 {
		return nil, false
	}
	v, err := oj.Parse(body)
	if err != nil {
		return nil, false
	}
	return v, true
}

// MatchJSONEqual reports whether body is JSON deeply equal to expected.
func MatchJSONEqual(expected any, body []byte) bool {
	actual, ok := ParseJSON(body)
	if !ok {
		return false
	}
	return jsonEqual(actual, expected)
}

// MatchJSONSubset reports whether body is JSON containing expected: every
// object key in expected must be present with a matching value, and every
// array element in expected must match some element of the actual array.
func MatchJSONSubset(expected any, body []byte) bool {
	actual, ok := ParseJSON(body)
	if !ok {
		return false
	}
	return jsonSubset(actual, expected)
}

func jsonEqual(actual, expected any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for k, ev := range e {
			av, present := a[k]
			if !present || !jsonEqual(av, ev) {
				return false
			}
		}
		return true
	case []any:
		a, ok := actual.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !jsonEqual(a[i], e[i]) {
				return false
			}
		}
		return true
	default:
		return scalarEqual(actual, expected)
	}
}

func jsonSubset(actual, expected any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, ev := range e {
			av, present := a[k]
			if !present || !jsonSubset(av, ev) {
				return false
			}
		}
		return true
	case []any:
		a, ok := actual.([]any)
		if !ok {
			return false
		}
		for _, ev := range e {
			found := false
			for _, av := range a {
				if jsonSubset(av, ev) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return scalarEqual(actual, expected)
	}
}

// scalarEqual compares JSON scalars, treating all numeric types as equal
// when their values are.
func scalarEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	an, aNum := toFloat64(actual)
	en, eNum := toFloat64(expected)
	if aNum || eNum {
		return aNum && eNum && an == en
	}
	switch e := expected.(type) {
	case string:
		a, ok := actual.(string)
		return ok && a == e
	case bool:
		a, ok := actual.(bool)
		return ok && a == e
	}
	return false
}

// toFloat64 attempts to convert a value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
