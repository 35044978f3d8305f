// Package jsx turns JSX-style element descriptors into live dom nodes and
// places them into an existing tree.
//
// # Descriptors
//
// A Descriptor has a type, ordered props and children. The type decides how
// it is built:
//
//   - nil or "": a fragment, whose children become siblings with no wrapper
//   - a string: an element with that tag name
//   - a Component (or func(Props) any, func(Props) *Descriptor): called with
//     the props, children included under "children"
//   - a value with a Render() any or Render() *Descriptor method
//
// Anything else fails with an unsupported component type error.
//
//	hello := func(p jsx.Props) any {
//	    return jsx.H("h1", nil, "Hello ", p.Value("name"))
//	}
//
//	out, err := jsx.Create("div", jsx.Props{{"className", "greeting"}},
//	    jsx.H(hello, jsx.Props{{"name", "world"}}),
//	)
//	// out.OuterHTML() == `<div class="greeting"><h1>Hello world</h1></div>`
//
// # Props
//
// Each prop is classified when the element is built:
//
//   - on<Name> with a func value: registered as a listener for the
//     lower-cased event name, never serialized
//   - style with a map value: flattened to "margin-bottom: 10px; left: 20px"
//   - any other map value: flattened to "marginbottom: 10px, left: 20px"
//   - true: the attribute is set to its own name
//   - false or nil: the attribute is omitted
//   - className: written to the class attribute
//   - strings and numbers: written as is
//
// Elements named svg, and every element built under one, are created in the
// SVG namespace.
//
// # Insertion Helpers
//
// Render, RenderAppend and RenderPrepend place output inside a container,
// splicing fragments in order. RenderAfter and RenderBefore place a single
// node next to an anchor and reject fragments without touching the tree.
package jsx
