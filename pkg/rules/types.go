package rules

// MatchKind selects how a rule pattern is compared with a MIME type
type MatchKind string

// Matching strategies
const (
	KindRegexp MatchKind = "regexp"
	KindGlob   MatchKind = "glob"
	KindExact  MatchKind = "exact"
	KindPrefix MatchKind = "prefix"
	KindAny    MatchKind = "any"
)

// Rule maps a MIME type pattern to a renderer name
type Rule struct {
	Pattern  string                 `koanf:"pattern" toml:"pattern" yaml:"pattern"`
	Kind     MatchKind              `koanf:"kind" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Renderer string                 `koanf:"renderer" toml:"renderer" yaml:"renderer"`
	Options  map[string]interface{} `koanf:"options" toml:"options,omitempty" yaml:"options,omitempty"`
}

// IsCatchAll reports whether the rule matches every type
func (r Rule) IsCatchAll() bool {
	switch r.Kind {
	case KindAny:
		return true
	case KindGlob:
		return r.Pattern == "*"
	case KindRegexp, "":
		return r.Pattern == "." || r.Pattern == ".*" || r.Pattern == "^.*$"
	}
	return false
}
