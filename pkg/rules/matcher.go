package rules

import (
	"path"
	"regexp"
	"strings"

	"github.com/arthur-debert/termime/pkg/errors"
)

// Matcher decides whether a MIME type matches a table entry
type Matcher interface {
	Match(typ string) bool
}

// MatcherFunc adapts a function to Matcher
type MatcherFunc func(typ string) bool

// Match calls f(typ)
func (f MatcherFunc) Match(typ string) bool { return f(typ) }

// RegexpMatcher matches when the expression is found in the type
type RegexpMatcher struct {
	re *regexp.Regexp
}

// Match implements Matcher
func (m RegexpMatcher) Match(typ string) bool { return m.re.MatchString(typ) }

// GlobMatcher matches with path.Match, so `*` stops at the slash
type GlobMatcher struct {
	pattern string
}

// Match implements Matcher
func (m GlobMatcher) Match(typ string) bool {
	ok, _ := path.Match(m.pattern, strings.ToLower(typ))
	return ok
}

// ExactMatcher matches one type, ignoring case
type ExactMatcher string

// Match implements Matcher
func (m ExactMatcher) Match(typ string) bool { return strings.EqualFold(string(m), typ) }

// PrefixMatcher matches types starting with the prefix, ignoring case
type PrefixMatcher string

// Match implements Matcher
func (m PrefixMatcher) Match(typ string) bool {
	return strings.HasPrefix(strings.ToLower(typ), strings.ToLower(string(m)))
}

// AnyMatcher matches every type
type AnyMatcher struct{}

// Match implements Matcher
func (AnyMatcher) Match(string) bool { return true }

// Compile builds the matcher for a rule
func Compile(rule Rule) (Matcher, error) {
	switch rule.Kind {
	case KindAny:
		return AnyMatcher{}, nil
	}

	if rule.Pattern == "" {
		return nil, errors.New(errors.ErrConfigValid, "rule has empty pattern")
	}

	switch rule.Kind {
	case KindRegexp, "":
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid pattern %q", rule.Pattern)
		}
		return RegexpMatcher{re: re}, nil
	case KindGlob:
		pattern := strings.ToLower(rule.Pattern)
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid glob %q", rule.Pattern)
		}
		return GlobMatcher{pattern: pattern}, nil
	case KindExact:
		return ExactMatcher(rule.Pattern), nil
	case KindPrefix:
		return PrefixMatcher(rule.Pattern), nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown match kind %q", rule.Kind)
	}
}
