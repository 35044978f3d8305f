package jsx

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/dom"
)

// applyProp classifies one prop and writes it to el.
func applyProp(el *dom.Node, key string, value any) error {
	if value == nil || key == "children" {
		return nil
	}

	if isEventKey(key) && reflect.TypeOf(value).Kind() == reflect.Func {
		l, ok := listenerOf(value)
		if !ok {
			return errors.Errorf("E103", "Unsupported event handler %T for %s", value, key)
		}
		el.AddEventListener(strings.ToLower(key[2:]), l)
		return nil
	}

	name := key
	if key == "className" {
		name = "class"
	}

	if b, ok := value.(bool); ok {
		if b {
			el.SetAttribute(name, name)
		} else {
			el.RemoveAttribute(name)
		}
		return nil
	}

	if pairs, ok := objectPairs(value); ok {
		if key == "style" {
			el.SetAttribute(name, joinPairs(pairs, hyphenate, "; "))
		} else {
			el.SetAttribute(name, joinPairs(pairs, strings.ToLower, ", "))
		}
		return nil
	}

	el.SetAttribute(name, stringify(value))
	return nil
}

// isEventKey reports whether key has the on<Name> shape.
func isEventKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// listenerOf adapts the accepted handler signatures to a dom.Listener.
func listenerOf(value any) (dom.Listener, bool) {
	switch fn := value.(type) {
	case dom.Listener:
		return fn, fn != nil
	case func(*dom.Event):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(*dom.Event) { fn() }, true
	default:
		return nil, false
	}
}

// pair is one flattened object entry.
type pair struct {
	key   string
	value string
}

// objectPairs returns the entries of a map-like value. Props keep
// declaration order; Go maps are iterated in sorted key order.
func objectPairs(value any) ([]pair, bool) {
	switch v := value.(type) {
	case Props:
		out := make([]pair, 0, len(v))
		for _, p := range v {
			out = append(out, pair{p.Key, stringify(p.Value)})
		}
		return out, true
	case map[string]string:
		out := make([]pair, 0, len(v))
		for k, val := range v {
			out = append(out, pair{k, val})
		}
		sortPairs(out)
		return out, true
	case map[string]any:
		out := make([]pair, 0, len(v))
		for k, val := range v {
			out = append(out, pair{k, stringify(val)})
		}
		sortPairs(out)
		return out, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out = append(out, pair{iter.Key().String(), stringify(iter.Value().Interface())})
	}
	sortPairs(out)
	return out, true
}

func sortPairs(p []pair) {
	sort.Slice(p, func(i, j int) bool { return p[i].key < p[j].key })
}

// joinPairs renders pairs as "key: value" joined by sep.
func joinPairs(pairs []pair, key func(string) string, sep string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, key(p.key)+": "+p.value)
	}
	return strings.Join(parts, sep)
}

// hyphenate converts a camel-case CSS property name to hyphen-case:
// marginBottom becomes margin-bottom.
func hyphenate(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// scalarString formats strings and numbers the way a browser stringifies
// them. It reports false for any other type.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return string(v), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return formatFloat(float64(v), 32), true
	case float64:
		return formatFloat(v, 64), true
	default:
		return "", false
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// stringify formats any prop value. Values that are neither scalars nor
// booleans fall back to fmt.
func stringify(value any) string {
	if s, ok := scalarString(value); ok {
		return s
	}
	if b, ok := value.(bool); ok {
		return strconv.FormatBool(b)
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
