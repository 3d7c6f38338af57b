package rules

// DefaultRules returns the default table.
// Order matters: the SVG rule precedes the generic image rule, and the
// generic text rule precedes the catch-all.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "image/svg", Renderer: "svg"},
		{Pattern: "^image/", Renderer: "image"},
		{Pattern: "^text/html", Renderer: "html"},
		{Pattern: "^text/(x-)?latex", Renderer: "latex"},
		{Pattern: "^text/(x-)?markdown", Renderer: "markdown"},
		{Pattern: `^application/(.*\+)?json`, Renderer: "json"},
		{Pattern: "^text/", Renderer: "text"},
		{Pattern: ".", Renderer: "dump"},
	}
}
