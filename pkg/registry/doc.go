// Package registry provides a generic, type-safe registry of named items.
// termime keeps its renderers in one, so configuration can refer to them by
// name and a host can swap a built-in renderer for its own backend.
package registry
