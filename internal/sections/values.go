package sections

import "strconv"

// object is a decoded JSON object with tolerant typed accessors. All
// methods are safe on a nil object and return "absent" for missing keys,
// null values, and type mismatches. The external services disagree enough
// about shapes that every lookup has to be shrug-tolerant.
type object map[string]any

// asObject converts a decoded JSON value to an object, nil when it is not
// a JSON object.
func asObject(v any) object {
	m, _ := v.(map[string]any)
	return m
}

// asArray converts a decoded JSON value to an array, nil when it is not a
// JSON array.
func asArray(v any) []any {
	a, _ := v.([]any)
	return a
}

func (o object) str(key string) (string, bool) {
	s, ok := o[key].(string)
	return s, ok
}

// integer reads a numeric field. JSON numbers decode as float64; string
// digits are accepted too since some backends quote their IDs.
func (o object) integer(key string) (int, bool) {
	switch v := o[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func (o object) boolean(key string) (bool, bool) {
	b, ok := o[key].(bool)
	return b, ok
}

// child returns a nested object, nil when absent or not an object.
func (o object) child(key string) object {
	return asObject(o[key])
}

// list returns a nested array, nil when absent or not an array.
func (o object) list(key string) []any {
	return asArray(o[key])
}

// field names an object/key pair for ordered-fallback resolution. The
// backends expose the same datum under several keys and nesting levels;
// adapters declare the precedence once per field instead of hand-rolling
// the chain each time.
type field struct {
	o   object
	key string
}

// firstString returns the first present string among the candidates.
func firstString(candidates ...field) (string, bool) {
	for _, c := range candidates {
		if s, ok := c.o.str(c.key); ok {
			return s, true
		}
	}
	return "", false
}

// firstInt returns the first present integer among the candidates.
func firstInt(candidates ...field) (int, bool) {
	for _, c := range candidates {
		if n, ok := c.o.integer(c.key); ok {
			return n, true
		}
	}
	return 0, false
}
