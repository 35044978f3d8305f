package jsx

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/jsxdom/pkg/dom"
	"github.com/vango-dev/jsxdom/pkg/metrics"
)

func single() Output {
	return MustBuild(H(hello, Props{{"name", "world"}}))
}

func twoHeadings() Output {
	return MustBuild(F(H("h1", nil, "Hello"), H("h1", nil, "world")))
}

func TestContainerHelpers(t *testing.T) {
	tests := []struct {
		name   string
		helper func(Output, Container) error
		out    func() Output
		want   string
	}{
		{"Render single", Render, single, "<h1>Hello world</h1>"},
		{"Render fragment", Render, twoHeadings, "<h1>Hello</h1><h1>world</h1>"},
		{"RenderAppend single", RenderAppend, single, "<h1>Exist</h1><h1>Hello world</h1>"},
		{"RenderAppend fragment", RenderAppend, twoHeadings, "<h1>Exist</h1><h1>Hello</h1><h1>world</h1>"},
		{"RenderPrepend single", RenderPrepend, single, "<h1>Hello world</h1><h1>Exist</h1>"},
		{"RenderPrepend fragment", RenderPrepend, twoHeadings, "<h1>Hello</h1><h1>world</h1><h1>Exist</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := dom.MustParseElement("<div><h1>Exist</h1></div>")
			if err := tt.helper(tt.out(), target); err != nil {
				t.Fatalf("error: %v", err)
			}
			if got := target.InnerHTML(); got != tt.want {
				t.Errorf("InnerHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderEmptyFragmentClearsTarget(t *testing.T) {
	target := dom.MustParseElement("<div><p>old</p>text</div>")
	if err := Render(MustBuild(F()), target); err != nil {
		t.Fatal(err)
	}
	if target.ChildCount() != 0 {
		t.Errorf("ChildCount() = %d, want 0", target.ChildCount())
	}
}

func TestRenderKeepsEventHandlers(t *testing.T) {
	calls := 0
	target := dom.NewElement("main")
	out := MustBuild(H("button", Props{{"onClick", func() { calls++ }}}, "go"))

	if err := Render(out, target); err != nil {
		t.Fatal(err)
	}
	target.FirstChild().Click()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

type anchorCall struct {
	position string
	node     *dom.Node
}

// recordingAnchor records InsertAdjacentElement calls without a tree.
type recordingAnchor struct {
	calls []anchorCall
}

func (a *recordingAnchor) InsertAdjacentElement(position string, el *dom.Node) error {
	a.calls = append(a.calls, anchorCall{position, el})
	return nil
}

func TestAdjacentHelpers(t *testing.T) {
	tests := []struct {
		name     string
		helper   func(Output, Anchor) error
		position string
	}{
		{"RenderAfter", RenderAfter, "afterend"},
		{"RenderBefore", RenderBefore, "beforebegin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchor := &recordingAnchor{}
			out := single()
			if err := tt.helper(out, anchor); err != nil {
				t.Fatal(err)
			}
			if len(anchor.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(anchor.calls))
			}
			call := anchor.calls[0]
			if call.position != tt.position {
				t.Errorf("position = %q, want %q", call.position, tt.position)
			}
			if call.node != out.Node() || call.node.OuterHTML() != "<h1>Hello world</h1>" {
				t.Errorf("node = %q", call.node.OuterHTML())
			}
		})
	}
}

func TestAdjacentHelpersRejectFragments(t *testing.T) {
	tests := []struct {
		name   string
		helper func(Output, Anchor) error
	}{
		{"RenderAfter", RenderAfter},
		{"RenderBefore", RenderBefore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchor := &recordingAnchor{}
			err := tt.helper(twoHeadings(), anchor)
			ve := wantCode(t, err, "E101")
			want := tt.name + " does not support top-level fragment rendering"
			if ve.Message != want {
				t.Errorf("Message = %q, want %q", ve.Message, want)
			}
			if !strings.Contains(err.Error(), want) {
				t.Errorf("Error() = %q", err.Error())
			}
			if len(anchor.calls) != 0 {
				t.Errorf("anchor touched %d times", len(anchor.calls))
			}
		})
	}
}

func TestAdjacentHelpersInTree(t *testing.T) {
	section := dom.MustParseElement("<section><p>a</p><p>b</p></section>")
	first := section.FirstChild()

	if err := RenderAfter(MustBuild(H("hr", nil)), first); err != nil {
		t.Fatal(err)
	}
	if err := RenderBefore(MustBuild(H("h2", nil, "t")), first); err != nil {
		t.Fatal(err)
	}

	want := "<h2>t</h2><p>a</p><hr/><p>b</p>"
	if got := section.InnerHTML(); got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestFragmentLeavesTreeUntouched(t *testing.T) {
	section := dom.MustParseElement("<section><p>a</p></section>")
	before := section.OuterHTML()

	if err := RenderAfter(twoHeadings(), section.FirstChild()); err == nil {
		t.Fatal("expected error")
	}
	if got := section.OuterHTML(); got != before {
		t.Errorf("tree mutated: %q", got)
	}
}

func TestInvalidTargets(t *testing.T) {
	var nilNode *dom.Node

	tests := []struct {
		name string
		call func() error
	}{
		{"Render nil", func() error { return Render(single(), nil) }},
		{"RenderAppend typed nil", func() error { return RenderAppend(single(), nilNode) }},
		{"RenderAfter nil", func() error { return RenderAfter(single(), nil) }},
		{"RenderBefore typed nil", func() error { return RenderBefore(single(), nilNode) }},
		{"RenderAfter detached", func() error { return RenderAfter(single(), dom.NewElement("p")) }},
		{"Render into text", func() error { return Render(single(), dom.NewText("x")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, tt.call(), "E104")
		})
	}
}

func TestRenderCycleIsRejected(t *testing.T) {
	target := dom.NewElement("div")
	_ = target.AppendChild(dom.NewText("keep"))
	wrapper := dom.NewElement("section")
	_ = wrapper.AppendChild(target)

	err := Render(NodeOutput(wrapper), target)
	wantCode(t, err, "E104")
	if !stderrors.Is(err, dom.ErrHierarchy) {
		t.Errorf("err = %v, want wrapped ErrHierarchy", err)
	}
	if target.TextContent() != "keep" {
		t.Errorf("target mutated: %q", target.InnerHTML())
	}
}

func TestInsertionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := NewBuilder(WithMetrics(metrics.New(metrics.WithRegistry(reg))))

	_ = b.Render(single(), dom.NewElement("div"))
	_ = b.RenderAfter(twoHeadings(), &recordingAnchor{})

	if got := counterValue(t, reg, "jsxdom_insertions_total", map[string]string{"helper": "Render", "status": "ok"}); got != 1 {
		t.Errorf("insertions_total{Render,ok} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "jsxdom_insertions_total", map[string]string{"helper": "RenderAfter", "status": "E101"}); got != 1 {
		t.Errorf("insertions_total{RenderAfter,E101} = %v, want 1", got)
	}
}
