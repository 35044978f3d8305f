// Package dom provides the live document tree that jsxdom renders into.
//
// A Node is an element, a text node or a document fragment. Elements carry
// a namespace URI, ordered attributes and event listeners. The mutation
// primitives follow browser DOM semantics: inserting a node detaches it
// from its previous parent, and inserting a fragment moves the fragment's
// children in order and leaves the fragment empty.
//
// # Serialization
//
// OuterHTML, InnerHTML and Render serialize through golang.org/x/net/html.
// ParseFragment goes the other way and is mostly useful for building
// insertion targets:
//
//	target, _ := dom.ParseElement(`<div><h1>Exist</h1></div>`)
//	target.Append(dom.NewElement("p"))
//	fmt.Println(target.InnerHTML())
//	// <h1>Exist</h1><p></p>
//
// # Events
//
// AddEventListener registers a Listener under an event name. DispatchEvent
// calls the target's listeners and then bubbles to each ancestor until a
// listener calls StopPropagation. There is no removal: listeners live as
// long as the node.
package dom
