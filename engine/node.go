package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Convert coerces a decoded property value into the Go type of the given format.
//
// Backends that speak JSON (IPC) deliver numbers as float64 and nodes as raw JSON;
// Convert normalizes them so every backend yields the same payload types.
func Convert(value any, format Format) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch format {
	case FormatString:
		switch v := value.(type) {
		case string:
			return v, nil
		case bool:
			if v {
				return "yes", nil
			}
			return "no", nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		}
	case FormatFlag:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return v == "yes", nil
		}
	case FormatInt64:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			return int64(v), nil
		case json.Number:
			return v.Int64()
		}
	case FormatDouble:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		}
	case FormatNode:
		return DecodeNode(value)
	case FormatNone:
		return nil, nil
	}

	return nil, fmt.Errorf("cannot convert %T to %s", value, format)
}

// DecodeNode returns a node value as decoded JSON.
// String payloads are treated as the JSON rendering mpv produces for node properties.
func DecodeNode(value any) (any, error) {
	switch v := value.(type) {
	case string:
		var node any
		if err := json.Unmarshal([]byte(v), &node); err != nil {
			return nil, fmt.Errorf("decode node: %w", err)
		}
		return node, nil
	case []byte:
		var node any
		if err := json.Unmarshal(v, &node); err != nil {
			return nil, fmt.Errorf("decode node: %w", err)
		}
		return node, nil
	default:
		return v, nil
	}
}
