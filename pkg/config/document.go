package config

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Document is an immutable configuration tree. Interior nodes are
// map[string]any; leaves are bool, int64, float64, string, or []any.
//
// A Document is never modified after construction, so it may be shared
// between goroutines without locking. Accessors hand out copies of maps
// and lists.
type Document struct {
	root   map[string]any
	source string
}

// NewDocument builds a document from a tree. The tree is copied and
// normalized, so later changes to it do not affect the document.
func NewDocument(tree map[string]any, source string) *Document {
	root, _ := normalize(tree).(map[string]any)
	if root == nil {
		root = make(map[string]any)
	}
	return &Document{root: root, source: source}
}

// Empty returns a document with no sections.
func Empty() *Document {
	return &Document{root: make(map[string]any)}
}

// Source names where the document was loaded from.
func (d *Document) Source() string {
	return d.source
}

// Len returns the number of top-level sections.
func (d *Document) Len() int {
	return len(d.root)
}

// Sections returns the top-level section names in sorted order.
func (d *Document) Sections() []string {
	keys := make([]string, 0, len(d.root))
	for k := range d.root {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tree returns a deep copy of the whole tree.
func (d *Document) Tree() map[string]any {
	return cloneMap(d.root)
}

// Lookup resolves a dotted path. The returned value is a copy.
func (d *Document) Lookup(path string) (any, bool) {
	v, ok := lookupPath(d.root, splitPath(path))
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Has reports whether path resolves to a value.
func (d *Document) Has(path string) bool {
	_, ok := lookupPath(d.root, splitPath(path))
	return ok
}

// Get resolves path and checks the value against kind. It never falls back
// to a default: a missing path is a *KeyNotFoundError and a value of another
// kind is a *TypeMismatchError.
func (d *Document) Get(path string, kind Kind) (any, error) {
	v, ok := lookupPath(d.root, splitPath(path))
	if !ok {
		return nil, &KeyNotFoundError{Path: path}
	}
	out, ok := asKind(v, kind)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Expected: kind, Actual: describe(v)}
	}
	return out, nil
}

// Get resolves path in doc. See Document.Get.
func Get(doc *Document, path string, kind Kind) (any, error) {
	return doc.Get(path, kind)
}

// String returns the string at path.
func (d *Document) String(path string) (string, error) {
	v, err := d.Get(path, KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Int returns the integer at path.
func (d *Document) Int(path string) (int64, error) {
	v, err := d.Get(path, KindInt)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Float returns the number at path. Integer values are widened.
func (d *Document) Float(path string) (float64, error) {
	v, err := d.Get(path, KindFloat)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Bool returns the boolean at path.
func (d *Document) Bool(path string) (bool, error) {
	v, err := d.Get(path, KindBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Map returns a copy of the mapping at path.
func (d *Document) Map(path string) (map[string]any, error) {
	v, err := d.Get(path, KindMap)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// StringMap returns a copy of the string lookup table at path.
func (d *Document) StringMap(path string) (map[string]string, error) {
	v, err := d.Get(path, KindStringMap)
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// StringList returns a copy of the string list at path.
func (d *Document) StringList(path string) ([]string, error) {
	v, err := d.Get(path, KindStringList)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// With returns a copy of d with value stored at path. Missing intermediate
// mappings are created and a non-mapping value on the way is replaced.
// d itself is unchanged.
func (d *Document) With(path string, value any) *Document {
	root := cloneMap(d.root)
	setPath(root, splitPath(path), cloneValue(normalize(value)))
	return &Document{root: root, source: d.source}
}

// Equal reports whether both documents hold the same tree.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return reflect.DeepEqual(d.root, other.root)
}

// Flatten returns every leaf keyed by its dotted path.
func (d *Document) Flatten() map[string]any {
	out := make(map[string]any)
	flattenInto(d.root, "", out)
	return out
}

func flattenInto(m map[string]any, prefix string, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flattenInto(nested, key, out)
			continue
		}
		out[key] = cloneValue(v)
	}
}

// asKind converts a normalized value to the Go type returned for kind.
func asKind(v any, kind Kind) (any, bool) {
	switch kind {
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindInt:
		i, ok := v.(int64)
		return i, ok
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		}
		return nil, false
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		return cloneMap(m), true
	case KindStringMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	case KindStringList:
		l, ok := v.([]any)
		if !ok {
			return nil, false
		}
		out := make([]string, len(l))
		for i, val := range l {
			s, ok := val.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// describe names the kind of a normalized value for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return KindBool.String()
	case int64:
		return KindInt.String()
	case float64:
		return KindFloat.String()
	case string:
		return KindString.String()
	case map[string]any:
		return KindMap.String()
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// normalize converts decoder output into the document's canonical types.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = item
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		if val > math.MaxInt64 {
			return float64(val)
		}
		return int64(val)
	case float32:
		return float64(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func lookupPath(root map[string]any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	var current any = root
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at parts, creating intermediate maps. Non-map
// intermediates are replaced.
func setPath(root map[string]any, parts []string, value any) {
	if len(parts) == 0 {
		return
	}
	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
