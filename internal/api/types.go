package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// Field is a single named request value.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered set of request values. It marshals to a JSON object
// whose keys keep their insertion order, and doubles as the list of plain
// form fields when a request is sent as multipart.
type Fields []Field

// MarshalJSON encodes the fields as a JSON object in insertion order.
// json.Marshal re-escapes its output; call MarshalJSON directly to keep
// HTML characters as written.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshalUnescaped(field.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", field.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalUnescaped encodes v without escaping <, > and &, so HTML and
// subtitle text reach the server as written.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Request describes a single API call.
type Request struct {
	Method string
	// Path is relative to the base URL; a leading slash is ignored.
	Path string
	// Body is sent as JSON unless Files is non-empty, in which case every
	// entry becomes a plain multipart form field.
	Body Fields
	// Files maps form field names to paths on disk.
	Files map[string]string
	Query url.Values
}

func (r Request) multipart() bool {
	return len(r.Files) > 0
}
