package normalize

// Records turns any upstream payload into a list of record objects.
// A mapping contributes its "data" field, a bare list is used as is and a
// single object becomes a one-element list. Items that are not objects are
// dropped; nil or empty input yields an empty list.
func Records(raw any) []map[string]any {
	list := raw
	if m, ok := raw.(map[string]any); ok {
		list = m["data"]
	}

	switch v := list.(type) {
	case []any:
		records := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			}
		}
		return records
	case []map[string]any:
		return v
	case map[string]any:
		if len(v) == 0 {
			return []map[string]any{}
		}
		return []map[string]any{v}
	default:
		return []map[string]any{}
	}
}

// Lookup returns the first non-empty string value found under keys, tried in
// order. Missing keys and non-string values are skipped.
func Lookup(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Object returns the nested object stored under key, or an empty map when the
// key is absent or holds something else.
func Object(m map[string]any, key string) map[string]any {
	if nested, ok := m[key].(map[string]any); ok {
		return nested
	}
	return map[string]any{}
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
