package common

import "fmt"

// StringArg returns the named argument as a non-empty string.
func StringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// BoolArg returns the named argument as a bool, distinguishing an explicit
// false from an absent argument.
func BoolArg(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

// IntArg returns the named argument as an int. JSON numbers arrive as
// float64 in MCP arguments.
func IntArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// StringSliceArg returns the named argument as a string slice. A missing
// argument yields (nil, false, nil); a present argument that is not an array
// of strings yields an error naming the offending key.
func StringSliceArg(args map[string]interface{}, key string) ([]string, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, false, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, false, fmt.Errorf("%s must be an array of strings", key)
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false, fmt.Errorf("%s must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, true, nil
}

// StringMapArg returns the named argument as a string-to-string map.
func StringMapArg(args map[string]interface{}, key string) (map[string]string, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, false, nil
	}

	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("%s must be an object mapping string keys to string values", key)
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, false, fmt.Errorf("%s must be an object mapping string keys to string values", key)
		}
		out[k] = s
	}
	return out, true, nil
}
