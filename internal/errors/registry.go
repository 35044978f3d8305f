package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryRender,
		Message:  "Unsupported component type",
		Detail:   "A descriptor type must be a tag name, a component function, or a value with a zero-argument Render method.",
	},
	"E101": {
		Category: CategoryRender,
		Message:  "Unsupported fragment anchor",
		Detail:   "A fragment has no single node to place next to the target. Wrap the fragment in an element or use Render, RenderAppend or RenderPrepend.",
	},
	"E102": {
		Category: CategoryRender,
		Message:  "Unsupported component result",
		Detail:   "A component must return a descriptor, a node, a build output or an error, and components may nest at most 512 levels deep.",
	},
	"E103": {
		Category: CategoryRender,
		Message:  "Unsupported event handler",
		Detail:   "Event handler props accept func(), func(*dom.Event) or dom.Listener values.",
	},
	"E104": {
		Category: CategoryRender,
		Message:  "Invalid insertion target",
		Detail:   "The target is nil, or a sibling insertion was requested on a node without a parent.",
	},

	// ============================================
	// Decode Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryDecode,
		Message:  "Invalid descriptor document",
		Detail:   `A descriptor document is a JSON object with optional "type", "props" and "children" fields.`,
	},
	"E121": {
		Category: CategoryDecode,
		Message:  "Unknown component name",
		Detail:   "Capitalized descriptor types refer to components, which must be registered before decoding.",
	},

	// ============================================
	// Config Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The jsxdom.json file contains invalid values.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No jsxdom.json file was found in the current directory or any parent.",
	},

	// ============================================
	// Publish Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "The rendered markup could not be written to the object store.",
	},

	// ============================================
	// CLI Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		Detail:   "Run the command with --help to see its usage.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
