package schema

// Resolve evaluates the default of f for the given node. The second result is
// false when the field declares no default or the function yields nil.
func Resolve(f Field, nodeID string, data map[string]any) (any, bool) {
	var v any
	if f.DefaultFunc != nil {
		v = f.DefaultFunc(nodeID, data)
	} else {
		v = f.Default
	}
	return v, v != nil
}

// Defaults returns the default value of every field whose key is absent from data.
// A key that is present is never included, even when its value is nil, so applying the
// result any number of times leaves user edits untouched.
func Defaults(fields []Field, nodeID string, data map[string]any) map[string]any {
	out := make(map[string]any)
	for _, f := range fields {
		if _, ok := data[f.Key]; ok {
			continue
		}
		if v, ok := Resolve(f, nodeID, data); ok {
			out[f.Key] = v
		}
	}
	return out
}

// Missing lists the keys of fields absent from data, in declaration order.
func Missing(fields []Field, data map[string]any) []string {
	var keys []string
	for _, f := range fields {
		if _, ok := data[f.Key]; !ok {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
