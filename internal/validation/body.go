// Package validation runs declarative, accumulating field rules over request bodies.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Body is a decoded request body. JSON bodies keep their native value types;
// form bodies hold strings.
type Body map[string]any

// DecodeJSON parses a JSON object body. An empty payload yields an empty Body.
func DecodeJSON(data []byte) (Body, error) {
	body := Body{}
	if len(bytes.TrimSpace(data)) == 0 {
		return body, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return body, nil
}

// FromValues builds a Body from form values, keeping the first value per key.
func FromValues(values map[string][]string) Body {
	body := make(Body, len(values))
	for k, v := range values {
		if len(v) > 0 {
			body[k] = v[0]
		}
	}
	return body
}

// Has reports whether key is present with a non-null value.
func (b Body) Has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

// String returns the value of key rendered as a string ("" when absent).
func (b Body) String(key string) string {
	return stringify(b[key])
}

// Bool parses key as a boolean. The second result is false when key is absent.
func (b Body) Bool(key string) (bool, bool) {
	if !b.Has(key) {
		return false, false
	}
	v, err := strconv.ParseBool(b.String(key))
	if err != nil {
		return false, false
	}
	return v, true
}

// Date parses key with ParseDate. Falsy values yield nil.
func (b Body) Date(key string) (*time.Time, error) {
	if isFalsy(b[key]) {
		return nil, nil
	}
	t, err := ParseDate(b.String(key))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// IDs parses key with ParseIDList. The second result is false when key is absent.
func (b Body) IDs(key string) ([]uint, bool, error) {
	if !b.Has(key) {
		return nil, false, nil
	}
	ids, err := ParseIDList(b[key])
	return ids, true, err
}

func (b Body) clone() Body {
	out := make(Body, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// stringify renders v the way it is checked by string rules.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", time.RFC3339}

// ParseDate accepts YYYY-MM-DD, YYYY/MM/DD or RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

var errIDList = errors.New("must be a list of ids")

// ParseIDList turns a JSON array, or a string holding a JSON-encoded array,
// into ids. Elements may be numbers or numeric strings. Duplicates are dropped.
func ParseIDList(v any) ([]uint, error) {
	var items []any
	switch t := v.(type) {
	case nil:
		return []uint{}, nil
	case []any:
		items = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []uint{}, nil
		}
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		if err := dec.Decode(&items); err != nil {
			return nil, errIDList
		}
	default:
		return nil, errIDList
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		n, err := strconv.ParseUint(strings.TrimSpace(stringify(item)), 10, 64)
		if err != nil || n == 0 {
			return nil, errIDList
		}
		id := uint(n)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
