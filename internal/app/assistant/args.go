package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// callArgs wraps a tool call's argument payload. The payload is untrusted
// model output: keys may be missing, null, blank, or of the wrong type, so
// every accessor normalizes defensively.
type callArgs map[string]any

// stringArg returns the trimmed string value for key, or "" when the key is
// missing, null, blank, or not a string.
func (a callArgs) stringArg(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// isNull reports whether the key is present with an explicit null value.
func (a callArgs) isNull(key string) bool {
	v, ok := a[key]
	return ok && v == nil
}

func (a callArgs) boolArg(key string) bool {
	v, ok := a[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// intArg returns the integer value for key, or def when absent or malformed.
// JSON numbers arrive as float64; some SDK paths hand back json.Number.
func (a callArgs) intArg(key string, def int) int {
	v, ok := a[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return def
		}
		return int(i)
	default:
		return def
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// timeArg parses the value for key as a timestamp. Missing, null and blank
// all mean "absent" (nil). An unparsable value is an error: the catalog
// promises RFC 3339, so anything else is a broken argument payload.
func (a callArgs) timeArg(key string) (*time.Time, error) {
	s := a.stringArg(key)
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, fmt.Errorf("argument %s: %w", key, err)
	}
	return &t, nil
}

// requireTimeArg is timeArg for required parameters.
func (a callArgs) requireTimeArg(key string) (time.Time, error) {
	t, err := a.timeArg(key)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("argument %s is required", key)
	}
	return *t, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
