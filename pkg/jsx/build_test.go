package jsx

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/dom"
	"github.com/vango-dev/jsxdom/pkg/metrics"
)

func hello(p Props) any {
	return H("h1", nil, "Hello ", p.Value("name"))
}

func mustOuter(t *testing.T, d *Descriptor) string {
	t.Helper()
	out, err := Build(d)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return out.OuterHTML()
}

func wantCode(t *testing.T, err error, code string) *errors.Error {
	t.Helper()
	var ve *errors.Error
	if !stderrors.As(err, &ve) {
		t.Fatalf("err = %v, want *errors.Error with code %s", err, code)
	}
	if ve.Code != code {
		t.Fatalf("Code = %s, want %s (%v)", ve.Code, code, err)
	}
	return ve
}

func TestBuildMarkup(t *testing.T) {
	tests := []struct {
		name string
		desc *Descriptor
		want string
	}{
		{
			name: "basic document",
			desc: H("div", Props{{"className", "highlight"}, {"attribute", "true"}},
				"Hello ", H("span", nil, "world")),
			want: `<div class="highlight" attribute="true">Hello <span>world</span></div>`,
		},
		{
			name: "style map",
			desc: H("div", Props{
				{"className", "highlight"},
				{"style", map[string]any{"marginBottom": "10px", "left": "20px"}},
			}),
			want: `<div class="highlight" style="left: 20px; margin-bottom: 10px"></div>`,
		},
		{
			name: "style props keep declaration order",
			desc: H("div", Props{{"style", Props{{"marginBottom", "10px"}, {"left", "20px"}}}}),
			want: `<div style="margin-bottom: 10px; left: 20px"></div>`,
		},
		{
			name: "style string passes through",
			desc: H("div", Props{{"style", "color: red"}}),
			want: `<div style="color: red"></div>`,
		},
		{
			name: "other objects are lower-cased, not hyphenated",
			desc: H("div", Props{
				{"className", "highlight"},
				{"attribute", map[string]string{"marginBottom": "10px", "left": "20px"}},
			}),
			want: `<div class="highlight" attribute="left: 20px, marginbottom: 10px"></div>`,
		},
		{
			name: "true sets the attribute to its name",
			desc: H("div", Props{{"className", "highlight"}, {"required", true}}),
			want: `<div class="highlight" required="required"></div>`,
		},
		{
			name: "false and nil are omitted",
			desc: H("input", Props{{"disabled", false}, {"value", nil}, {"name", "q"}}),
			want: `<input name="q"/>`,
		},
		{
			name: "later false removes an earlier true",
			desc: H("div", Props{{"hidden", true}, {"hidden", false}}),
			want: `<div></div>`,
		},
		{
			name: "numbers",
			desc: H("p", Props{{"tabindex", 2}, {"data-ratio", 1.5}}, 1, 2.5, int64(3), uint8(4)),
			want: `<p tabindex="2" data-ratio="1.5">12.534</p>`,
		},
		{
			name: "nil and booleans are skipped as children",
			desc: H("p", nil, nil, true, "a", false, (*Descriptor)(nil)),
			want: `<p>a</p>`,
		},
		{
			name: "slices flatten in order",
			desc: H("ul", nil, []*Descriptor{H("li", nil, "a"), H("li", nil, "b")}, []string{"c", "d"}),
			want: `<ul><li>a</li><li>b</li>cd</ul>`,
		},
		{
			name: "nested fragments splice flat",
			desc: H("div", nil, "a", F("b", F(H("i", nil, "c")), "d"), "e"),
			want: `<div>ab<i>c</i>de</div>`,
		},
		{
			name: "function component",
			desc: H(hello, Props{{"name", "world"}}),
			want: `<h1>Hello world</h1>`,
		},
		{
			name: "empty string tag is a fragment",
			desc: H("", nil, H("b", nil), H("i", nil)),
			want: `<b></b><i></i>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustOuter(t, tt.desc); got != tt.want {
				t.Errorf("OuterHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleDiffersFromObjectProp(t *testing.T) {
	m := map[string]any{"marginBottom": "10px", "left": "20px"}
	style, _ := MustBuild(H("div", Props{{"style", m}})).Node().GetAttribute("style")
	other, _ := MustBuild(H("div", Props{{"data", m}})).Node().GetAttribute("data")

	if style != "left: 20px; margin-bottom: 10px" {
		t.Errorf("style = %q", style)
	}
	if other != "left: 20px, marginbottom: 10px" {
		t.Errorf("data = %q", other)
	}
}

func TestSVGNamespace(t *testing.T) {
	out := MustBuild(H("div", nil,
		H("svg", nil,
			H("g", nil, H("circle", Props{{"cx", "80"}, {"cy", "80"}, {"r", "30"}, {"fill", "red"}})),
		),
		H("div", nil),
	))

	root := out.Node()
	svg := root.FirstChild()
	circle := svg.FirstChild().FirstChild()
	sibling := root.LastChild()

	if root.Namespace != dom.HTMLNamespace {
		t.Errorf("root Namespace = %q", root.Namespace)
	}
	if svg.Namespace != dom.SVGNamespace {
		t.Errorf("svg Namespace = %q", svg.Namespace)
	}
	if circle.Tag != "circle" || circle.Namespace != dom.SVGNamespace {
		t.Errorf("circle = %s in %q", circle.Tag, circle.Namespace)
	}
	if sibling.Namespace != dom.HTMLNamespace {
		t.Errorf("sibling div Namespace = %q", sibling.Namespace)
	}
	want := `<svg><g><circle cx="80" cy="80" r="30" fill="red"></circle></g></svg>`
	if got := svg.OuterHTML(); got != want {
		t.Errorf("svg OuterHTML() = %q, want %q", got, want)
	}
}

func TestSVGNamespaceThroughComponents(t *testing.T) {
	dot := func(p Props) any { return H("circle", p) }
	out := MustBuild(H("svg", nil, H(dot, Props{{"r", 1}}), F(H("rect", nil))))

	for _, c := range out.Node().Children() {
		if c.Namespace != dom.SVGNamespace {
			t.Errorf("%s Namespace = %q, want SVG", c.Tag, c.Namespace)
		}
	}
}

func TestFunctionComponentMatchesDirectBuild(t *testing.T) {
	viaComponent := mustOuter(t, H(hello, Props{{"name", "world"}}))
	direct := mustOuter(t, H("h1", nil, "Hello ", "world"))
	if viaComponent != direct {
		t.Errorf("component %q != direct %q", viaComponent, direct)
	}
}

func TestComponentSignatures(t *testing.T) {
	tests := []struct {
		name string
		typ  any
	}{
		{"Component", Component(func(Props) any { return H("b", nil, "x") })},
		{"func returning any", func(Props) any { return H("b", nil, "x") }},
		{"func returning descriptor", func(Props) *Descriptor { return H("b", nil, "x") }},
		{"func returning node", func(Props) any {
			n := dom.NewElement("b")
			_ = n.AppendChild(dom.NewText("x"))
			return n
		}},
		{"typed func returning node", func(Props) *dom.Node {
			return dom.MustParseElement("<b>x</b>")
		}},
		{"func returning output", func(Props) any { return MustBuild(H("b", nil, "x")) }},
		{"object", renderAny{}},
		{"descriptor object", &renderDescriptor{}},
		{"node object", renderNode{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustOuter(t, H(tt.typ, nil)); got != "<b>x</b>" {
				t.Errorf("OuterHTML() = %q, want <b>x</b>", got)
			}
		})
	}
}

type renderAny struct{}

func (renderAny) Render() any { return H("b", nil, "x") }

type renderDescriptor struct{}

type renderNode struct{}

func (renderNode) Render() *dom.Node { return dom.MustParseElement("<b>x</b>") }

func (*renderDescriptor) Render() *Descriptor { return H("b", nil, "x") }

func TestObjectComponent(t *testing.T) {
	if got := mustOuter(t, H(greeter{word: "Hello"}, nil)); got != "<div>Hello</div>" {
		t.Errorf("OuterHTML() = %q", got)
	}
}

type greeter struct{ word string }

func (g greeter) Render() any { return H("div", nil, g.word) }

func TestComponentsReceiveChildren(t *testing.T) {
	var got Props
	card := func(p Props) any {
		got = p
		return H("section", Props{{"className", p.Value("tone")}}, p.Children()...)
	}

	d := H(card, Props{{"tone", "info"}}, H("h2", nil, "Title"), "body")
	html := mustOuter(t, d)
	if html != `<section class="info"><h2>Title</h2>body</section>` {
		t.Errorf("OuterHTML() = %q", html)
	}
	if len(got.Children()) != 2 {
		t.Errorf("children = %v", got.Children())
	}
	if _, ok := d.Props.Get("children"); ok {
		t.Error("descriptor props should not be mutated")
	}
}

func TestComponentIsCalledOnEveryBuild(t *testing.T) {
	calls := 0
	counter := func(Props) any { calls++; return H("i", nil) }
	d := H(counter, nil)
	MustBuild(d)
	MustBuild(d)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestPropsAreNotRenderedForComponents(t *testing.T) {
	separator := func(p Props) any {
		dots := make([]string, p.Value("dots").(int))
		for i := range dots {
			dots[i] = "."
		}
		return H("i", nil, dots)
	}

	got := mustOuter(t, H("div", nil,
		H(hello, Props{{"name", "foo"}}),
		H(separator, Props{{"dots", 50}}),
		H(hello, Props{{"name", "bar"}}),
	))
	want := "<div><h1>Hello foo</h1><i>" + strings.Repeat(".", 50) + "</i><h1>Hello bar</h1></div>"
	if got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}
}

func TestFragmentComponentInsideElement(t *testing.T) {
	headings := func(Props) any { return F(H("h1", nil, "Hello"), H("h1", nil, "world")) }
	out := MustBuild(H("div", nil, H(headings, nil)))

	if got := out.Node().InnerHTML(); got != "<h1>Hello</h1><h1>world</h1>" {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestTopLevelFragment(t *testing.T) {
	out := MustBuild(F(H("h1", nil, "A"), "text", H("h1", nil, "B")))
	if !out.IsFragment() || out.Kind() != OutputFragment {
		t.Fatalf("Kind() = %v, want fragment", out.Kind())
	}
	if out.Node() != nil {
		t.Error("fragment output should have no single node")
	}
	if out.Len() != 3 {
		t.Errorf("Len() = %d, want 3", out.Len())
	}
	for _, n := range out.Nodes() {
		if n.Parent() != nil {
			t.Error("fragment nodes should have no wrapping parent")
		}
	}

	empty := MustBuild(F())
	if !empty.IsFragment() || empty.Len() != 0 {
		t.Errorf("empty fragment = %v/%d", empty.Kind(), empty.Len())
	}
}

func TestExistingNodesAsChildren(t *testing.T) {
	existing := dom.NewElement("em")
	frag := dom.NewFragment(dom.NewText("x"), dom.NewText("y"))
	built := MustBuild(H("b", nil, "z"))

	out := MustBuild(H("p", nil, existing, frag, built))
	if got := out.Node().InnerHTML(); got != "<em></em>xy<b>z</b>" {
		t.Errorf("InnerHTML() = %q", got)
	}
	if existing.Parent() != out.Node() {
		t.Error("existing node should be reparented")
	}
}

func TestEventHandlers(t *testing.T) {
	calls := 0
	var gotEvent *dom.Event

	out := MustBuild(H("div", Props{
		{"onClick", func() { calls++ }},
		{"onMouseOver", func(e *dom.Event) { gotEvent = e }},
		{"onkeydown", dom.Listener(func(*dom.Event) { calls += 10 })},
		{"one", "attr"},
	}))
	el := out.Node()

	if got := el.OuterHTML(); got != `<div one="attr"></div>` {
		t.Errorf("OuterHTML() = %q, handlers must not serialize", got)
	}

	el.Click()
	if calls != 1 {
		t.Errorf("calls after click = %d, want 1", calls)
	}

	el.DispatchEvent(&dom.Event{Type: "mouseover"})
	if gotEvent == nil || gotEvent.Target != el {
		t.Error("mouseover listener not invoked with event")
	}

	el.DispatchEvent(&dom.Event{Type: "keydown"})
	if calls != 11 {
		t.Errorf("calls after keydown = %d, want 11", calls)
	}
}

func TestUnsupportedEventHandler(t *testing.T) {
	_, err := Build(H("button", Props{{"onClick", func(int) {}}}))
	wantCode(t, err, "E103")
}

func TestUnsupportedComponentType(t *testing.T) {
	tests := []struct {
		name string
		typ  any
	}{
		{"number", 42},
		{"struct without render", struct{ Name string }{"x"}},
		{"render with arguments", badRender{}},
		{"func with wrong signature", func() {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(H(tt.typ, nil))
			ve := wantCode(t, err, "E100")
			if ve.Category != errors.CategoryRender {
				t.Errorf("Category = %q", ve.Category)
			}
		})
	}
}

type badRender struct{}

func (badRender) Render(int) any { return nil }

func TestUnsupportedComponentTypeInNestedChild(t *testing.T) {
	_, err := Build(H("div", nil, H("p", nil, H(3.14, nil))))
	wantCode(t, err, "E100")
}

func TestUnsupportedChild(t *testing.T) {
	_, err := Build(H("div", nil, map[string]int{"a": 1}))
	wantCode(t, err, "E100")
}

func TestUnsupportedComponentResult(t *testing.T) {
	_, err := Build(H(func(Props) any { return struct{}{} }, nil))
	wantCode(t, err, "E102")
}

func TestVoidElementWithChildren(t *testing.T) {
	got := mustOuter(t, H("div", nil, H("input", nil, "x"), "after"))
	if want := "<div><input/>after</div>"; got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}
}

func TestRepeatedNodeChild(t *testing.T) {
	n := dom.NewElement("em")
	out := MustBuild(H("p", nil, n, "x", n))
	p := out.Node()
	if got := p.InnerHTML(); got != "x<em></em>" {
		t.Errorf("InnerHTML() = %q, want %q", got, "x<em></em>")
	}

	n.Remove()
	if got := p.ChildCount(); got != 1 {
		t.Errorf("ChildCount() after Remove = %d, want 1", got)
	}
	if got := p.OuterHTML(); got != "<p>x</p>" {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestComponentReturningNil(t *testing.T) {
	out := MustBuild(H("p", nil, "a", H(func(Props) any { return nil }, nil), "b"))
	if got := out.OuterHTML(); got != "<p>ab</p>" {
		t.Errorf("OuterHTML() = %q, want %q", got, "<p>ab</p>")
	}
}

func TestComponentReturningText(t *testing.T) {
	out := MustBuild(H("p", nil, H(func(Props) any { return 7 }, nil)))
	if got := out.OuterHTML(); got != "<p>7</p>" {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild should panic on error")
		}
	}()
	MustBuild(H(1, nil))
}

func TestCreate(t *testing.T) {
	out, err := Create("a", Props{{"href", "/"}}, "home")
	if err != nil {
		t.Fatal(err)
	}
	if got := out.OuterHTML(); got != `<a href="/">home</a>` {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		typ  any
		want Kind
	}{
		{"nil", nil, KindFragment},
		{"empty", "", KindFragment},
		{"tag", "div", KindTag},
		{"component", Component(hello), KindFunc},
		{"func", hello, KindFunc},
		{"object", greeter{}, KindObject},
		{"node func", func(Props) *dom.Node { return nil }, KindFunc},
		{"node object", renderNode{}, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindOf(tt.typ)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := KindOf(1); err == nil {
		t.Error("KindOf(1) should fail")
	}
	if Kind(99).String() != "Unknown" {
		t.Error("unknown Kind should stringify as Unknown")
	}
}

func TestProps(t *testing.T) {
	p := Props{{"a", 1}, {"b", 2}, {"a", 3}}
	if v, ok := p.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) = %v, %v; last value wins", v, ok)
	}
	if p.Value("missing") != nil {
		t.Error("Value(missing) should be nil")
	}

	q := p.With("b", 20).With("c", 30)
	if q.Value("b") != 20 || q.Value("c") != 30 {
		t.Errorf("With() = %v", q)
	}
	if q[1].Key != "b" {
		t.Errorf("With() should keep position, got %v", q)
	}
	if p.Value("b") != 2 {
		t.Error("With() must not mutate the receiver")
	}
}

func TestHyphenate(t *testing.T) {
	tests := map[string]string{
		"marginBottom":     "margin-bottom",
		"left":             "left",
		"borderTopWidth":   "border-top-width",
		"WebkitTransition": "-webkit-transition",
		"z-index":          "z-index",
	}
	for in, want := range tests {
		if got := hyphenate(in); got != want {
			t.Errorf("hyphenate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScalarString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{42, "42"},
		{int32(-7), "-7"},
		{uint64(9), "9"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{100.0, "100"},
	}
	for _, tt := range tests {
		got, ok := scalarString(tt.in)
		if !ok || got != tt.want {
			t.Errorf("scalarString(%v) = %q, %v; want %q", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := scalarString(true); ok {
		t.Error("booleans are not scalars")
	}
}

func TestBuilderObservability(t *testing.T) {
	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	b := NewBuilder(
		WithMetrics(metrics.New(metrics.WithRegistry(reg))),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)

	if _, err := b.Build(H("div", nil, "a", H("b", nil))); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(H(1, nil)); err == nil {
		t.Fatal("expected error")
	}

	if got := counterValue(t, reg, "jsxdom_builds_total", map[string]string{"output": "node", "status": "ok"}); got != 1 {
		t.Errorf("builds_total{ok} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "jsxdom_builds_total", map[string]string{"status": "E100"}); got != 1 {
		t.Errorf("builds_total{E100} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "jsxdom_nodes_created_total", map[string]string{"type": "element"}); got != 2 {
		t.Errorf("nodes_created_total{element} = %v, want 2", got)
	}
	if !strings.Contains(logs.String(), "jsx build failed") || !strings.Contains(logs.String(), "code=E100") {
		t.Errorf("missing failure log, got:\n%s", logs.String())
	}
}

// counterValue sums the counters of a family whose labels include match.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, match map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metricLoop:
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			for k, v := range match {
				if labels[k] != v {
					continue metricLoop
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestComponentReturningError(t *testing.T) {
	failing := func(Props) any { return errors.Errorf("E121", "Unknown component %q", "X") }
	_, err := Build(H("div", nil, H(failing, nil)))
	wantCode(t, err, "E121")
}

func TestComponentNestingLimit(t *testing.T) {
	var loop Component
	loop = func(Props) any { return H(loop, nil) }

	_, err := Build(H(loop, nil))
	ve := wantCode(t, err, "E102")
	if !strings.Contains(ve.Message, "nesting") {
		t.Errorf("Message = %q", ve.Message)
	}
}
