// Package rules provides the ordered pattern table that maps MIME types to
// renderers.
//
// # Pattern Conventions
//
// Each rule names a matching strategy through its kind:
//
//   - `regexp` (default) - searched in the type string, `image/svg` matches
//     `image/svg+xml`; anchor with ^ and $ for a full match
//   - `glob` - path.Match semantics, `image/*`
//   - `exact` - case-insensitive equality, `text/html`
//   - `prefix` - case-insensitive prefix, `text/`
//   - `any` - matches everything
//
// # Rule Priority
//
// Rules are evaluated strictly in declaration order. The first matching rule
// wins, not the longest or most specific one, so specific rules go before
// general ones. Every table ends with a catch-all entry, which makes
// resolution total.
//
// # Configuration
//
// Rules can be defined in the termime config file:
//
//	[[rules]]
//	pattern = "image/svg"
//	renderer = "svg"
//
//	[[rules]]
//	pattern = "image/*"
//	kind = "glob"
//	renderer = "image"
//	options = { max_width = 80 }
//
// A configured rule list replaces the default table. The catch-all is added
// back when the list does not end with one.
package rules
