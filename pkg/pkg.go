//nolint:gochecknoglobals
package pkg

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "tagweave"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Template tag resolver with a sandboxed script engine"
	// Version is the semantic version of the tagweave module.
	Version = "0.1.0"
)
