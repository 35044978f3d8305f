package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/jsxdom/pkg/dom"
	"github.com/vango-dev/jsxdom/pkg/jsx"
)

// renderModes maps --mode values to insertion helpers.
var renderModes = []string{"render", "append", "prepend", "after", "before"}

type renderOptions struct {
	pretty bool
	tree   bool
	into   string
	mode   string
	output string
}

func renderCmd(flags *globalFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a descriptor document to markup",
		Long: `Render a JSON descriptor document to HTML markup.

Reads the document from the given file, or from stdin when the argument
is "-" or missing. With --into, the output is inserted into the first
element of an existing markup file using one of the insertion modes:

  render   replace the element's contents
  append   insert after the element's contents
  prepend  insert before the element's contents
  after    insert after the element (single-node output only)
  before   insert before the element (single-node output only)

Examples:
  jsxdom render page.json
  jsxdom render page.json --pretty -o page.html
  jsxdom render card.json --into layout.html --mode append
  echo '{"type":"p","children":["hi"]}' | jsxdom render --tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pretty") {
				opts.pretty = e.cfg.Pretty
			}
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			return runRender(cmd, e, source, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the markup (default from jsxdom.json)")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "Print the node tree instead of markup")
	cmd.Flags().StringVar(&opts.into, "into", "", "Markup file to insert the output into")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "render", "Insertion mode: "+strings.Join(renderModes, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, e *env, source string, opts *renderOptions) error {
	if !slices.Contains(renderModes, opts.mode) {
		return usageError("Unknown --mode %q (want one of %s)", opts.mode, strings.Join(renderModes, ", "))
	}
	if opts.mode != "render" && opts.into == "" {
		return usageError("--mode %s needs --into", opts.mode)
	}

	d, err := decodeSource(cmd.InOrStdin(), source, e.registry)
	if err != nil {
		return err
	}
	out, err := e.builder.BuildContext(cmd.Context(), d)
	if err != nil {
		return err
	}

	nodes := out.Nodes()
	if opts.into != "" {
		root, err := insertInto(e.builder, out, opts.into, opts.mode)
		if err != nil {
			return err
		}
		nodes = root.Children()
	}

	var text string
	if opts.tree {
		var b strings.Builder
		for _, n := range nodes {
			b.WriteString(n.Dump())
		}
		text = b.String()
	} else {
		var b strings.Builder
		for _, n := range nodes {
			b.WriteString(n.OuterHTML())
		}
		text = b.String()
		if opts.pretty {
			text = dom.Pretty(text)
		}
		text += "\n"
	}

	if opts.output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(text), 0644); err != nil {
		return err
	}
	success(cmd.ErrOrStderr(), "Wrote %s", opts.output)
	return nil
}

// decodeSource decodes a document from a file, or from stdin for "-".
func decodeSource(stdin io.Reader, source string, reg jsx.Registry) (*jsx.Descriptor, error) {
	if source == "-" {
		return jsx.Decode(stdin, reg)
	}
	return jsx.DecodeFile(source, reg)
}

// insertInto parses the markup file and inserts out relative to its first
// element. It returns the parsed markup's root, a body element.
func insertInto(b *jsx.Builder, out jsx.Output, file, mode string) (*dom.Node, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	nodes, err := dom.ParseFragment(string(data))
	if err != nil {
		return nil, err
	}
	root := dom.NewElement("body")
	if err := root.Append(nodes...); err != nil {
		return nil, err
	}

	var target *dom.Node
	for _, n := range root.Children() {
		if n.Type == dom.ElementNode {
			target = n
			break
		}
	}
	if target == nil {
		return nil, usageError("%s has no element to insert into", file)
	}

	switch mode {
	case "render":
		err = b.Render(out, target)
	case "append":
		err = b.RenderAppend(out, target)
	case "prepend":
		err = b.RenderPrepend(out, target)
	case "after":
		err = b.RenderAfter(out, target)
	case "before":
		err = b.RenderBefore(out, target)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	return root, err
}
