// Package errors provides structured, coded errors for jsxdom.
//
// Every failure the element factory, the insertion helpers, the descriptor
// decoder and the CLI can report has a registered code. An error carries:
//   - a short message and a longer explanation
//   - an optional source location (for descriptor documents)
//   - a suggestion on how to fix it
//   - the wrapped cause, for errors.Is/As
//
// # Error Categories
//
//   - render: element factory and insertion helper errors
//   - decode: descriptor document errors
//   - config: jsxdom.json errors
//   - publish: object storage errors
//   - cli: command usage errors
//
// # Usage
//
//	err := errors.New("E121").
//	    WithLocation("pages/index.json", 4, 13).
//	    WithSuggestion(`Register the component under "Hello" before decoding`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Unknown component name
//	//
//	//   pages/index.json:4:13
//	//   ...
package errors
