package rules

import (
	"sync"

	"github.com/arthur-debert/termime/pkg/errors"
)

// Entry is one compiled row of a Table
type Entry[C any] struct {
	Rule       Rule
	Matcher    Matcher
	Capability C
}

// Table is an ordered list of entries closed by a catch-all. It can be
// changed at any time; changes apply to the next Resolve.
type Table[C any] struct {
	mu       sync.RWMutex
	entries  []Entry[C]
	fallback Entry[C]
}

// NewTable creates an empty table whose catch-all resolves to fallback
func NewTable[C any](fallbackName string, fallback C) *Table[C] {
	return &Table[C]{
		fallback: Entry[C]{
			Rule:       Rule{Pattern: ".", Kind: KindAny, Renderer: fallbackName},
			Matcher:    AnyMatcher{},
			Capability: fallback,
		},
	}
}

// Append adds a rule after all existing ones, before the catch-all
func (t *Table[C]) Append(rule Rule, capability C) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(len(t.entries), rule, capability)
}

// Insert adds a rule at position i, shifting later rules down
func (t *Table[C]) Insert(i int, rule Rule, capability C) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(i, rule, capability)
}

// AppendMatcher adds an entry with a caller supplied matching strategy
func (t *Table[C]) AppendMatcher(rule Rule, m Matcher, capability C) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry[C]{Rule: rule, Matcher: m, Capability: capability})
}

func (t *Table[C]) insertLocked(i int, rule Rule, capability C) error {
	if i < 0 || i > len(t.entries) {
		return errors.Newf(errors.ErrInvalidInput, "rule position %d out of range", i)
	}

	m, err := Compile(rule)
	if err != nil {
		return err
	}

	entry := Entry[C]{Rule: rule, Matcher: m, Capability: capability}
	t.entries = append(t.entries, Entry[C]{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = entry
	return nil
}

// Remove deletes the first rule with the given pattern. The catch-all cannot
// be removed.
func (t *Table[C]) Remove(pattern string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range t.entries {
		if e.Rule.Pattern == pattern {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps all rules for entries in one step
func (t *Table[C]) Replace(entries []Entry[C]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append([]Entry[C](nil), entries...)
}

// Resolve returns the first entry matching typ. It never fails: the catch-all
// answers when nothing else does.
func (t *Table[C]) Resolve(typ string) Entry[C] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, e := range t.entries {
		if e.Matcher.Match(typ) {
			return e
		}
	}
	return t.fallback
}

// Fallback returns the catch-all entry
func (t *Table[C]) Fallback() Entry[C] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fallback
}

// Entries returns the rows in evaluation order, catch-all included
func (t *Table[C]) Entries() []Entry[C] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry[C], 0, len(t.entries)+1)
	out = append(out, t.entries...)
	return append(out, t.fallback)
}

// Len returns the number of rows, catch-all included
func (t *Table[C]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) + 1
}

// Build compiles rules into entries, looking capabilities up by renderer name
func Build[C any](rules []Rule, lookup func(name string) (C, error)) ([]Entry[C], error) {
	entries := make([]Entry[C], 0, len(rules))
	for i, rule := range rules {
		if rule.Renderer == "" {
			return nil, errors.Newf(errors.ErrConfigValid, "rule %d has empty renderer", i)
		}
		m, err := Compile(rule)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "rule %d", i)
		}
		capability, err := lookup(rule.Renderer)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "rule %d names unknown renderer %q", i, rule.Renderer)
		}
		entries = append(entries, Entry[C]{Rule: rule, Matcher: m, Capability: capability})
	}
	return entries, nil
}
