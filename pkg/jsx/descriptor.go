package jsx

import (
	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/dom"
)

// Kind is the descriptor type discriminator.
type Kind uint8

const (
	KindFragment Kind = iota // No tag: children without a wrapper
	KindTag                  // "div", "svg", etc.
	KindFunc                 // Function component
	KindObject               // Value with a Render method
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFragment:
		return "Fragment"
	case KindTag:
		return "Tag"
	case KindFunc:
		return "Func"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Prop is a single named property.
type Prop struct {
	Key   string
	Value any
}

// Props is an ordered property map. Attributes are written in declaration
// order.
type Props []Prop

// Get returns the value of the last prop named key.
func (p Props) Get(key string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// Value returns the value of the prop named key, or nil.
func (p Props) Value(key string) any {
	v, _ := p.Get(key)
	return v
}

// Children returns the "children" prop passed to a component.
func (p Props) Children() []any {
	c, _ := p.Value("children").([]any)
	return c
}

// With returns a copy of p with key set to value. An existing prop keeps
// its position.
func (p Props) With(key string, value any) Props {
	out := make(Props, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Prop{Key: key, Value: value})
}

// Component is a function component.
type Component func(props Props) any

// Renderer is an object component.
type Renderer interface {
	Render() any
}

// DescriptorRenderer is an object component returning a descriptor.
type DescriptorRenderer interface {
	Render() *Descriptor
}

// NodeRenderer is an object component returning a live node.
type NodeRenderer interface {
	Render() *dom.Node
}

// Descriptor describes one element, component invocation or fragment.
type Descriptor struct {
	Type     any
	Props    Props
	Children []any
}

// H creates a descriptor. It is the factory a JSX transform targets.
func H(typ any, props Props, children ...any) *Descriptor {
	return &Descriptor{Type: typ, Props: props, Children: children}
}

// F creates a fragment descriptor.
func F(children ...any) *Descriptor {
	return H(nil, nil, children...)
}

// componentType is a descriptor type resolved to its kind.
type componentType struct {
	kind   Kind
	tag    string
	fn     func(Props) any
	render func() any
}

// resolveType classifies a descriptor type.
func resolveType(typ any) (componentType, error) {
	switch v := typ.(type) {
	case nil:
		return componentType{kind: KindFragment}, nil
	case string:
		if v == "" {
			return componentType{kind: KindFragment}, nil
		}
		return componentType{kind: KindTag, tag: v}, nil
	case Component:
		return componentType{kind: KindFunc, fn: v}, nil
	case func(Props) any:
		return componentType{kind: KindFunc, fn: v}, nil
	case func(Props) *Descriptor:
		return componentType{kind: KindFunc, fn: func(p Props) any { return v(p) }}, nil
	case func(Props) *dom.Node:
		return componentType{kind: KindFunc, fn: func(p Props) any { return v(p) }}, nil
	case Renderer:
		return componentType{kind: KindObject, render: v.Render}, nil
	case DescriptorRenderer:
		return componentType{kind: KindObject, render: func() any { return v.Render() }}, nil
	case NodeRenderer:
		return componentType{kind: KindObject, render: func() any { return v.Render() }}, nil
	default:
		return componentType{}, errors.Errorf("E100", "Unsupported component type %T", typ).
			WithSuggestion("Use a tag name, a func(jsx.Props) any, or a value with a Render() method")
	}
}

// KindOf reports how a descriptor type would be built.
func KindOf(typ any) (Kind, error) {
	ct, err := resolveType(typ)
	return ct.kind, err
}
