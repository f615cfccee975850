package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectTypeProperty is a named member of an object or class shape.
type ObjectTypeProperty struct {
	Key      string
	Value    Type
	Optional bool
	Static   bool
}

func (p *ObjectTypeProperty) String() string {
	opt := ""
	if p.Optional {
		opt = "?"
	}
	key := p.Key
	if !isIdentifier(key) {
		key = strconv.Quote(key)
	}
	return fmt.Sprintf("%s%s: %s", key, opt, p.Value)
}

func (p *ObjectTypeProperty) JSON() any {
	return map[string]any{
		"key":      p.Key,
		"value":    p.Value.JSON(),
		"optional": p.Optional,
		"static":   p.Static,
	}
}

// collectErrors checks the property against its owner object. A missing key
// reads as undefined; optional properties accept absence.
func (p *ObjectTypeProperty) collectErrors(val *Validation, path Path, obj map[string]any) bool {
	value, present := obj[p.Key]
	if !present {
		if p.Optional {
			return false
		}
		val.AddError(path.child(p.Key), p.Value, Undefined)
		return true
	}
	if p.Optional && IsUndefined(value) {
		return false
	}
	return p.Value.CollectErrors(val, path.child(p.Key), value)
}

// ObjectTypeIndexer constrains every key not covered by a declared property.
type ObjectTypeIndexer struct {
	ID    string
	Key   Type
	Value Type
}

func (ix *ObjectTypeIndexer) String() string {
	return fmt.Sprintf("[%s: %s]: %s", ix.ID, ix.Key, ix.Value)
}

func (ix *ObjectTypeIndexer) JSON() any {
	return map[string]any{"id": ix.ID, "key": ix.Key.JSON(), "value": ix.Value.JSON()}
}

// acceptsKey reports whether a string key coerces into the indexer's key
// type. Own keys of the modelled objects are always strings, so number keys
// are matched by numeric parse.
func (ix *ObjectTypeIndexer) acceptsKey(key string) bool {
	switch deepUnwrap(ix.Key).(type) {
	case *StringType, *AnyType, *MixedType, *ExistentialType:
		return true
	case *NumberType:
		_, err := strconv.ParseFloat(key, 64)
		return err == nil
	case *UnionType:
		for _, m := range deepUnwrap(ix.Key).(*UnionType).Members {
			sub := &ObjectTypeIndexer{ID: ix.ID, Key: m, Value: ix.Value}
			if sub.acceptsKey(key) {
				return true
			}
		}
		return false
	default:
		return ix.Key.Accepts(key)
	}
}

// ObjectTypeCallProperty declares that the object itself is callable.
type ObjectTypeCallProperty struct {
	Value  Type
	Static bool
}

func (cp *ObjectTypeCallProperty) String() string { return cp.Value.String() }
func (cp *ObjectTypeCallProperty) JSON() any {
	return map[string]any{"value": cp.Value.JSON(), "static": cp.Static}
}

// ObjectType accepts non-null objects whose members conform. With Exact set,
// own keys beyond the declared members are rejected.
type ObjectType struct {
	base
	Properties     []*ObjectTypeProperty
	Indexers       []*ObjectTypeIndexer
	CallProperties []*ObjectTypeCallProperty
	Exact          bool
}

func (t *ObjectType) TypeName() string            { return "ObjectType" }
func (t *ObjectType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *ObjectType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *ObjectType) Unwrap() Type                { return t }

func (t *ObjectType) String() string {
	var parts []string
	for _, cp := range t.CallProperties {
		parts = append(parts, cp.String())
	}
	for _, p := range t.Properties {
		parts = append(parts, p.String())
	}
	for _, ix := range t.Indexers {
		parts = append(parts, ix.String())
	}
	open, shut := "{", "}"
	if t.Exact {
		open, shut = "{|", "|}"
	}
	return open + " " + strings.Join(parts, "; ") + " " + shut
}

func (t *ObjectType) JSON() any {
	props := make([]any, len(t.Properties))
	for i, p := range t.Properties {
		props[i] = p.JSON()
	}
	out := map[string]any{"kind": "object", "properties": props, "exact": t.Exact}
	if len(t.Indexers) > 0 {
		idx := make([]any, len(t.Indexers))
		for i, ix := range t.Indexers {
			idx[i] = ix.JSON()
		}
		out["indexers"] = idx
	}
	if len(t.CallProperties) > 0 {
		calls := make([]any, len(t.CallProperties))
		for i, cp := range t.CallProperties {
			calls[i] = cp.JSON()
		}
		out["callProperties"] = calls
	}
	return out
}

// property returns the declared property named key, if any.
func (t *ObjectType) property(key string) *ObjectTypeProperty {
	for _, p := range t.Properties {
		if p.Key == key {
			return p
		}
	}
	return nil
}

func (t *ObjectType) CollectErrors(val *Validation, path Path, v any) bool {
	if len(t.CallProperties) > 0 && isCallable(v) {
		// Callable values satisfy call properties; they carry no own
		// keys in this value model, so declared properties must all be
		// optional to match.
		failed := false
		for _, p := range t.Properties {
			if !p.Optional && !p.Static {
				val.AddError(path.child(p.Key), p.Value, Undefined)
				failed = true
			}
		}
		return failed
	}

	obj, ok := objectOf(v)
	if !ok || v == nil {
		val.AddError(path, t, v)
		return true
	}
	if val.enter(t, v) {
		return false
	}
	defer val.leave(t, v)

	failed := false
	if len(t.CallProperties) > 0 {
		// Reached only for plain objects, which are never callable.
		val.AddError(path, t, v)
		failed = true
	}
	for _, p := range t.Properties {
		if p.Static {
			continue
		}
		if p.collectErrors(val, path, obj) {
			failed = true
		}
	}
	if len(t.Indexers) > 0 {
		for _, key := range sortedKeys(obj) {
			if t.property(key) != nil {
				continue
			}
			matched := false
			for _, ix := range t.Indexers {
				if ix.acceptsKey(key) {
					matched = true
					if ix.Value.CollectErrors(val, path.child(key), obj[key]) {
						failed = true
					}
					break
				}
			}
			if !matched {
				val.AddError(path.child(key), t, obj[key])
				failed = true
			}
		}
	}
	if t.Exact {
		for _, key := range sortedKeys(obj) {
			if t.property(key) != nil {
				continue
			}
			covered := false
			for _, ix := range t.Indexers {
				if ix.acceptsKey(key) {
					covered = true
					break
				}
			}
			if !covered {
				val.AddError(path.child(key), t, obj[key])
				failed = true
			}
		}
	}
	return failed
}
