package gateway

import "encoding/json"

// StripAbsent converts a record into its persisted document form, dropping
// every null-valued field recursively. A field is either present with a value
// or entirely absent; the store never sees an explicit missing marker.
func StripAbsent(record any) (any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return stripNulls(decoded), nil
}

func stripNulls(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			if v == nil {
				continue
			}
			out[k] = stripNulls(v)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, v := range typed {
			if v == nil {
				continue
			}
			out = append(out, stripNulls(v))
		}
		return out
	default:
		return value
	}
}
