package jsx

import (
	"reflect"

	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/dom"
)

// Container is a target whose contents the insertion helpers replace or
// extend. *dom.Node implements it.
type Container interface {
	ReplaceChildren(nodes ...*dom.Node) error
	Append(nodes ...*dom.Node) error
	Prepend(nodes ...*dom.Node) error
}

// Anchor is a target that a single node can be placed next to.
// *dom.Node implements it.
type Anchor interface {
	InsertAdjacentElement(position string, el *dom.Node) error
}

// Render replaces all contents of target with out.
func Render(out Output, target Container) error {
	return defaultBuilder.Render(out, target)
}

// RenderAppend inserts out after the existing contents of target.
func RenderAppend(out Output, target Container) error {
	return defaultBuilder.RenderAppend(out, target)
}

// RenderPrepend inserts out before the existing contents of target.
func RenderPrepend(out Output, target Container) error {
	return defaultBuilder.RenderPrepend(out, target)
}

// RenderAfter inserts out as the next sibling of target. Fragments are
// rejected.
func RenderAfter(out Output, target Anchor) error {
	return defaultBuilder.RenderAfter(out, target)
}

// RenderBefore inserts out as the previous sibling of target. Fragments
// are rejected.
func RenderBefore(out Output, target Anchor) error {
	return defaultBuilder.RenderBefore(out, target)
}

// Render replaces all contents of target with out.
func (b *Builder) Render(out Output, target Container) error {
	return b.fill("Render", out, target, Container.ReplaceChildren)
}

// RenderAppend inserts out after the existing contents of target.
func (b *Builder) RenderAppend(out Output, target Container) error {
	return b.fill("RenderAppend", out, target, Container.Append)
}

// RenderPrepend inserts out before the existing contents of target.
func (b *Builder) RenderPrepend(out Output, target Container) error {
	return b.fill("RenderPrepend", out, target, Container.Prepend)
}

// RenderAfter inserts out as the next sibling of target.
func (b *Builder) RenderAfter(out Output, target Anchor) error {
	return b.adjacent("RenderAfter", dom.AfterEnd, out, target)
}

// RenderBefore inserts out as the previous sibling of target.
func (b *Builder) RenderBefore(out Output, target Anchor) error {
	return b.adjacent("RenderBefore", dom.BeforeBegin, out, target)
}

func (b *Builder) fill(helper string, out Output, target Container, op func(Container, ...*dom.Node) error) error {
	if isNil(target) {
		return b.inserted(helper, out, errors.Errorf("E104", "%s: nil target", helper))
	}
	if err := op(target, out.Nodes()...); err != nil {
		return b.inserted(helper, out, errors.Errorf("E104", "%s: invalid insertion target", helper).Wrap(err))
	}
	return b.inserted(helper, out, nil)
}

func (b *Builder) adjacent(helper, position string, out Output, target Anchor) error {
	if out.IsFragment() {
		return b.inserted(helper, out, errors.Errorf("E101", "%s does not support top-level fragment rendering", helper))
	}
	if isNil(target) {
		return b.inserted(helper, out, errors.Errorf("E104", "%s: nil target", helper))
	}
	if err := target.InsertAdjacentElement(position, out.Node()); err != nil {
		return b.inserted(helper, out, errors.Errorf("E104", "%s: invalid insertion target", helper).Wrap(err))
	}
	return b.inserted(helper, out, nil)
}

// inserted records the outcome of a helper call and returns err.
func (b *Builder) inserted(helper string, out Output, err error) error {
	code := errors.Code(err)
	b.metrics.ObserveInsertion(helper, code)
	if err != nil {
		b.logger.Debug("jsx insertion failed", "helper", helper, "code", code, "error", err)
		return err
	}
	b.logger.Debug("jsx inserted", "helper", helper, "output", out.Kind().String(), "nodes", out.Len())
	return nil
}

// isNil reports whether v is nil or a typed nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
