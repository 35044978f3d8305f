package jsx

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/dom"
	"github.com/vango-dev/jsxdom/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/jsxdom/pkg/jsx"

// Builder converts descriptors into dom nodes. A Builder holds no per-build
// state and is safe for concurrent use.
type Builder struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithTracer sets the tracer. Default: the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(b *Builder) {
		b.tracer = t
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.tracer == nil {
		b.tracer = otel.Tracer(tracerName)
	}
	return b
}

var defaultBuilder = NewBuilder()

// Build converts d with the default Builder.
func Build(d *Descriptor) (Output, error) {
	return defaultBuilder.Build(d)
}

// MustBuild is like Build but panics on error.
func MustBuild(d *Descriptor) Output {
	out, err := Build(d)
	if err != nil {
		panic(err)
	}
	return out
}

// Create builds the descriptor H(typ, props, children...) with the default
// Builder.
func Create(typ any, props Props, children ...any) (Output, error) {
	return Build(H(typ, props, children...))
}

// Build converts d into dom nodes.
func (b *Builder) Build(d *Descriptor) (Output, error) {
	return b.BuildContext(context.Background(), d)
}

// BuildContext converts d into dom nodes, recording a span under ctx.
func (b *Builder) BuildContext(ctx context.Context, d *Descriptor) (Output, error) {
	_, span := b.tracer.Start(ctx, "jsx.Build")
	defer span.End()

	start := time.Now()
	p := &pass{}
	out, err := p.build(d, dom.HTMLNamespace)
	code := errors.Code(err)
	b.metrics.ObserveBuild(out.Kind().String(), time.Since(start), p.elements, p.texts, code)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.Debug("jsx build failed", "code", code, "error", err)
		return Output{}, err
	}

	span.SetAttributes(
		attribute.String("jsx.output", out.Kind().String()),
		attribute.Int("jsx.elements", p.elements),
		attribute.Int("jsx.texts", p.texts),
	)
	return out, nil
}

// maxDepth bounds component nesting so a self-referencing component fails
// instead of exhausting the stack.
const maxDepth = 512

// pass is the state of a single build.
type pass struct {
	elements int
	texts    int
	depth    int
}

// build converts one descriptor. The namespace is the one of the nearest
// enclosing element.
func (p *pass) build(d *Descriptor, ns string) (Output, error) {
	if d == nil {
		return Output{}, nil
	}
	ct, err := resolveType(d.Type)
	if err != nil {
		return Output{}, err
	}

	switch ct.kind {
	case KindFragment:
		nodes, err := p.children(d.Children, ns)
		if err != nil {
			return Output{}, err
		}
		return FragmentOutput(nodes...), nil
	case KindFunc, KindObject:
		if p.depth >= maxDepth {
			return Output{}, errors.Errorf("E102", "Component nesting exceeds %d levels", maxDepth)
		}
		p.depth++
		defer func() { p.depth-- }()

		if ct.kind == KindObject {
			return p.result(ct.render(), ns)
		}
		props := d.Props
		if len(d.Children) > 0 {
			props = props.With("children", d.Children)
		}
		return p.result(ct.fn(props), ns)
	default:
		return p.element(ct.tag, d, ns)
	}
}

// result accepts what a component returned. A returned error fails the
// build.
func (p *pass) result(v any, ns string) (Output, error) {
	switch r := v.(type) {
	case nil:
		return Output{}, nil
	case error:
		return Output{}, r
	case *Descriptor:
		if r == nil {
			return Output{}, nil
		}
		return p.build(r, ns)
	case *dom.Node:
		return NodeOutput(r), nil
	case Output:
		return r, nil
	}
	if s, ok := scalarString(v); ok {
		return NodeOutput(p.text(s)), nil
	}
	return Output{}, errors.Errorf("E102", "Unsupported component result %T", v)
}

// element creates a tag element, applies props, then appends children.
func (p *pass) element(tag string, d *Descriptor, ns string) (Output, error) {
	if tag == "svg" {
		ns = dom.SVGNamespace
	} else if ns != dom.SVGNamespace {
		ns = dom.HTMLNamespace
	}
	el := dom.NewElementNS(ns, tag)
	p.elements++

	for _, prop := range d.Props {
		if err := applyProp(el, prop.Key, prop.Value); err != nil {
			return Output{}, err
		}
	}

	nodes, err := p.children(d.Children, ns)
	if err != nil {
		return Output{}, err
	}
	if err := el.Append(nodes...); err != nil {
		return Output{}, errors.New("E104").Wrap(err)
	}
	return NodeOutput(el), nil
}

// children converts a child list, splicing fragments and slices flat.
func (p *pass) children(list []any, ns string) ([]*dom.Node, error) {
	var out []*dom.Node
	for _, c := range list {
		nodes, err := p.child(c, ns)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (p *pass) child(c any, ns string) ([]*dom.Node, error) {
	switch v := c.(type) {
	case nil, bool:
		return nil, nil
	case *Descriptor:
		out, err := p.build(v, ns)
		if err != nil {
			return nil, err
		}
		return out.Nodes(), nil
	case *dom.Node:
		if v == nil {
			return nil, nil
		}
		return NodeOutput(v).Nodes(), nil
	case Output:
		return v.Nodes(), nil
	case []any:
		return p.children(v, ns)
	}

	if s, ok := scalarString(c); ok {
		return []*dom.Node{p.text(s)}, nil
	}

	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return p.children(list, ns)
	}
	if s, ok := c.(fmt.Stringer); ok {
		return []*dom.Node{p.text(s.String())}, nil
	}
	return nil, errors.Errorf("E100", "Unsupported child type %T", c)
}

func (p *pass) text(s string) *dom.Node {
	p.texts++
	return dom.NewText(s)
}
