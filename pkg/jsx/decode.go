package jsx

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/jsxdom/internal/errors"
)

// Registry maps component names to component values for decoded documents.
type Registry map[string]any

// Register adds a component under name. The value must be a function or
// object component.
func (r Registry) Register(name string, component any) error {
	kind, err := KindOf(component)
	if err != nil {
		return err
	}
	if kind != KindFunc && kind != KindObject {
		return errors.Errorf("E100", "%s: %s is not a component", name, kind)
	}
	r[name] = component
	return nil
}

// File returns a component that builds the descriptor document at path.
// The document is read on every call, so edits show up without a restart.
// Props given to the component override the document root's props and
// children are appended to the root's children.
func File(path string, reg Registry) Component {
	return func(props Props) any {
		d, err := DecodeFile(path, reg)
		if err != nil {
			return err
		}
		for _, prop := range props {
			if prop.Key == "children" {
				d.Children = append(d.Children, props.Children()...)
				continue
			}
			d.Props = d.Props.With(prop.Key, prop.Value)
		}
		return d
	}
}

// RegisterFiles registers a File component for every name in files.
func (r Registry) RegisterFiles(files map[string]string) {
	for name, path := range files {
		r[name] = File(path, r)
	}
}

// Decode reads a JSON descriptor document:
//
//	{"type": "div", "props": {"className": "x"}, "children": ["Hello ", {"type": "Name"}]}
//
// A missing or null type is a fragment. A capitalized type names a
// component in reg. Prop objects decode to ordered Props and numbers to
// json.Number, so attributes keep document order and number formatting.
func Decode(r io.Reader, reg Registry) (*Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}
	return decode(data, "", reg)
}

// DecodeFile reads a descriptor document from path. Errors carry the file
// location and surrounding lines.
func DecodeFile(path string, reg Registry) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}
	return decode(data, path, reg)
}

func decode(data []byte, file string, reg Registry) (*Descriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &decoder{dec: dec, data: data, file: file, reg: reg}

	offset := dec.InputOffset()
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, d.fail("E120", offset, "descriptor document must be a JSON object")
	}
	desc, err := d.descriptor()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, d.fail("E120", dec.InputOffset(), "unexpected data after descriptor")
	}
	return desc, nil
}

type decoder struct {
	dec  *json.Decoder
	data []byte
	file string
	reg  Registry
}

func (d *decoder) token() (json.Token, error) {
	offset := d.dec.InputOffset()
	tok, err := d.dec.Token()
	if err == nil {
		return tok, nil
	}
	if se, ok := err.(*json.SyntaxError); ok {
		offset = se.Offset
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, d.fail("E120", offset, "malformed JSON").Wrap(err)
}

// descriptor reads the fields of an object whose '{' was already consumed.
func (d *decoder) descriptor() (*Descriptor, error) {
	desc := &Descriptor{}
	for d.dec.More() {
		keyOffset := d.dec.InputOffset()
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		switch key {
		case "type":
			valueOffset := d.dec.InputOffset()
			v, err := d.value()
			if err != nil {
				return nil, err
			}
			if desc.Type, err = d.resolve(v, valueOffset); err != nil {
				return nil, err
			}
		case "props":
			valueOffset := d.dec.InputOffset()
			v, err := d.value()
			if err != nil {
				return nil, err
			}
			switch p := v.(type) {
			case nil:
			case Props:
				desc.Props = p
			default:
				return nil, d.fail("E120", valueOffset, `"props" must be an object`)
			}
		case "children":
			valueOffset := d.dec.InputOffset()
			tok, err := d.token()
			if err != nil {
				return nil, err
			}
			if tok == nil {
				continue
			}
			if tok != json.Delim('[') {
				return nil, d.fail("E120", valueOffset, `"children" must be an array`)
			}
			if desc.Children, err = d.children(); err != nil {
				return nil, err
			}
		default:
			return nil, d.fail("E120", keyOffset, "unknown descriptor field %q", key)
		}
	}
	if _, err := d.token(); err != nil {
		return nil, err
	}
	return desc, nil
}

// children reads child values until the closing ']'. Objects are nested
// descriptors; arrays stay nested and are flattened at build time.
func (d *decoder) children() ([]any, error) {
	out := []any{}
	for d.dec.More() {
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		switch tok {
		case json.Delim('{'):
			child, err := d.descriptor()
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		case json.Delim('['):
			nested, err := d.children()
			if err != nil {
				return nil, err
			}
			out = append(out, nested)
		default:
			out = append(out, tok)
		}
	}
	if _, err := d.token(); err != nil {
		return nil, err
	}
	return out, nil
}

// value reads any JSON value, decoding objects to ordered Props.
func (d *decoder) value() (any, error) {
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	switch tok {
	case json.Delim('{'):
		props := Props{}
		for d.dec.More() {
			kt, err := d.token()
			if err != nil {
				return nil, err
			}
			v, err := d.value()
			if err != nil {
				return nil, err
			}
			props = append(props, Prop{Key: kt.(string), Value: v})
		}
		_, err := d.token()
		return props, err
	case json.Delim('['):
		list := []any{}
		for d.dec.More() {
			v, err := d.value()
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		_, err := d.token()
		return list, err
	default:
		return tok, nil
	}
}

// resolve maps a decoded "type" value to a descriptor type.
func (d *decoder) resolve(v any, offset int64) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		r, _ := utf8.DecodeRuneInString(t)
		if !unicode.IsUpper(r) {
			return t, nil
		}
		c, ok := d.reg[t]
		if !ok {
			return nil, d.fail("E121", offset, "Unknown component %q", t).
				WithSuggestion("Register the component under " + `"` + t + `"` + " before decoding")
		}
		return c, nil
	default:
		return nil, d.fail("E120", offset, `"type" must be a string or null`)
	}
}

// fail builds a coded error located at the given byte offset.
func (d *decoder) fail(code string, offset int64, format string, args ...any) *errors.Error {
	e := errors.Errorf(code, format, args...)
	line, col := position(d.data, offset)
	if d.file != "" {
		return e.WithLocation(d.file, line, col)
	}
	e.Location = &errors.Location{File: "<input>", Line: line, Column: col}
	return e
}

// position converts a byte offset to a 1-based line and column. Offsets
// taken between tokens are moved forward past separators to the next token.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	for offset < int64(len(data)) && bytes.IndexByte([]byte(" \t\r\n:,"), data[offset]) >= 0 {
		offset++
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
