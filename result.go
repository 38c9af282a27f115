package translateplus

import (
	"encoding/json"
	"fmt"
)

// Result is a decoded JSON response object. An empty response body yields
// an empty Result.
type Result map[string]any

// Decode re-encodes r into v, which is typically a pointer to a struct
// with json tags.
func (r Result) Decode(v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// String returns the string stored under key, or "" when absent or not a string.
func (r Result) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Map returns the object stored under key, or nil.
func (r Result) Map(key string) Result {
	m, _ := r[key].(map[string]any)
	return m
}
