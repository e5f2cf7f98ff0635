package errors

import "sort"

// Template defines a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]Template{
	// Config (E120-E129)
	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "qcss.json could not be read or parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A QCSS_* environment variable has a value of the wrong type.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// Manifest (E200-E209)
	"E200": {
		Category: CategoryManifest,
		Message:  "Manifest could not be parsed",
	},
	"E201": {
		Category: CategoryManifest,
		Message:  "Manifest entry is not a string",
		Detail:   "Manifests are flat maps from structural path to identifier.",
	},
	"E202": {
		Category: CategoryManifest,
		Message:  "Manifest source unavailable",
	},
	"E203": {
		Category: CategoryManifest,
		Message:  "Unknown manifest format",
	},
	"E204": {
		Category: CategoryManifest,
		Message:  "Manifest watcher failed",
	},

	// Document (E300-E309)
	"E300": {
		Category: CategoryDocument,
		Message:  "HTML document could not be parsed",
	},
	"E301": {
		Category: CategoryDocument,
		Message:  "Document has no body",
	},
	"E302": {
		Category: CategoryDocument,
		Message:  "Manifest does not cover document",
	},
	"E303": {
		Category: CategoryDocument,
		Message:  "Cannot write document",
	},

	// Browser (E400-E409)
	"E400": {
		Category: CategoryBrowser,
		Message:  "Browser launch failed",
	},
	"E401": {
		Category: CategoryBrowser,
		Message:  "Page navigation failed",
	},
	"E402": {
		Category: CategoryBrowser,
		Message:  "Browser evaluation failed",
	},

	// CLI (E140-E149)
	"E140": {
		Category: CategoryCLI,
		Message:  "Missing argument",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Preview server failed",
	},
}

// Codes returns all registered codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
