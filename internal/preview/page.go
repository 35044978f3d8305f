package preview

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/jsx"
)

// page wraps built output in an HTML document.
func page(title string, body any, reload bool) *jsx.Descriptor {
	var script any
	if reload {
		script = jsx.H("script", nil, clientScript)
	}
	return jsx.H("html", nil,
		jsx.H("head", nil,
			jsx.H("meta", jsx.Props{{Key: "charset", Value: "utf-8"}}),
			jsx.H("title", nil, title),
		),
		jsx.H("body", nil, body, script),
	)
}

// errorPage reports a failed document build.
func errorPage(file string, err error, reload bool) *jsx.Descriptor {
	return page(file, jsx.F(
		jsx.H("h1", nil, "Build failed: ", file),
		jsx.H("pre", jsx.Props{{Key: "className", Value: "jsxdom-error"}}, errors.Plain(err)),
	), reload)
}

// indexPage lists the documents under the preview directory.
func indexPage(docs []string, reload bool) *jsx.Descriptor {
	items := make([]*jsx.Descriptor, 0, len(docs))
	for _, doc := range docs {
		items = append(items, jsx.H("li", nil,
			jsx.H("a", jsx.Props{{Key: "href", Value: "/view/" + doc}}, doc),
		))
	}
	var list any = jsx.H("ul", nil, items)
	if len(docs) == 0 {
		list = jsx.H("p", nil, "No documents found.")
	}
	return page("jsxdom preview", jsx.F(jsx.H("h1", nil, "Documents"), list), reload)
}

// Documents returns the slash-separated paths of all .json files under
// dir, skipping ignored paths.
func Documents(dir string, ignore []string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && ignored(ignore, p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isDocument(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(docs)
	return docs, err
}

func isDocument(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".json") && filepath.Base(p) != "jsxdom.json"
}
