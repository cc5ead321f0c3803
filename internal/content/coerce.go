package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const dateLayout = "2006-01-02"

var truthyValues = map[string]struct{}{
	"1":    {},
	"true": {},
	"yes":  {},
	"on":   {},
}

// Front matter values arrive as loosely typed YAML. The helpers below narrow
// them into typed fields and never fail: anything unexpected becomes the
// zero value or the supplied default.

func toString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	}
	out, err := cast.ToStringE(value)
	if err != nil {
		return ""
	}
	return out
}

// toDate keeps only the calendar date, at UTC midnight.
func toDate(value any) *time.Time {
	var parsed time.Time
	switch typed := value.(type) {
	case time.Time:
		parsed = typed
	case *time.Time:
		if typed == nil {
			return nil
		}
		parsed = *typed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil
		}
		if day, err := time.Parse(dateLayout, trimmed); err == nil {
			parsed = day
			break
		}
		day, err := cast.ToTimeE(trimmed)
		if err != nil {
			return nil
		}
		parsed = day
	default:
		return nil
	}
	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

func toBool(value any, fallback bool) bool {
	switch typed := value.(type) {
	case nil:
		return fallback
	case bool:
		return typed
	case string:
		_, ok := truthyValues[strings.ToLower(strings.TrimSpace(typed))]
		return ok
	}
	out, err := cast.ToBoolE(value)
	if err != nil {
		return fallback
	}
	return out
}

// toInt accepts integers and numeric strings. Strings are parsed in base 10
// so "010" stays 10.
func toInt(value any) *int {
	switch typed := value.(type) {
	case nil, bool:
		return nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return nil
		}
		return &n
	case float32, float64:
		f := cast.ToFloat64(typed)
		if f != float64(int(f)) {
			return nil
		}
		n := int(f)
		return &n
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return nil
	}
	return &n
}

// toStringList trims every item and drops empties. A scalar becomes a one
// item list.
func toStringList(value any) []string {
	var items []any
	switch typed := value.(type) {
	case nil:
		return []string{}
	case []any:
		items = typed
	case []string:
		items = make([]any, len(typed))
		for i, item := range typed {
			items[i] = item
		}
	default:
		items = []any{typed}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, nested := item.(map[string]any); nested {
			continue
		}
		if trimmed := strings.TrimSpace(toString(item)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			if name, ok := key.(string); ok {
				out[name] = val
			}
		}
		return out
	default:
		return nil
	}
}

func toMapList(value any) []map[string]any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if mapped := toMap(item); mapped != nil {
			out = append(out, mapped)
		}
	}
	return out
}

func firstPresent(meta map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := meta[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
