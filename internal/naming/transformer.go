package naming

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule maps raw header text to a candidate name. Rules must be pure.
type Rule func(raw string) string

// Transformer produces unique names from a Rule.
type Transformer struct {
	rule   Rule
	maxLen int
	seen   map[string]struct{}
}

// NewTransformer creates a Transformer with an empty collision set.
func NewTransformer(rule Rule) *Transformer {
	return &Transformer{
		rule: rule,
		seen: make(map[string]struct{}),
	}
}

// NewBoundedTransformer is NewTransformer for names that must stay within
// maxLen bytes, suffix included. The rule's result is shortened to make room
// for the suffix.
func NewBoundedTransformer(rule Rule, maxLen int) *Transformer {
	t := NewTransformer(rule)
	t.maxLen = maxLen
	return t
}

// Reserve marks names as already taken without transforming them.
// Used to keep generated names clear of columns that already exist.
func (t *Transformer) Reserve(names ...string) {
	for _, name := range names {
		t.seen[name] = struct{}{}
	}
}

// Transform returns rule(raw), suffixed with " n" when that name was
// already produced or reserved.
func (t *Transformer) Transform(raw string) string {
	candidate := t.rule(raw)
	result := t.fit(candidate, "")
	for n := 1; t.taken(result); n++ {
		result = t.fit(candidate, " "+strconv.Itoa(n))
	}
	t.seen[result] = struct{}{}
	return result
}

// fit joins base and suffix, cutting base on a rune boundary when the
// result would exceed maxLen.
func (t *Transformer) fit(base, suffix string) string {
	if t.maxLen <= 0 || len(base)+len(suffix) <= t.maxLen {
		return base + suffix
	}
	cut := max(t.maxLen-len(suffix), 0)
	for cut > 0 && !utf8.RuneStart(base[cut]) {
		cut--
	}
	return strings.TrimRight(base[:cut], "_") + suffix
}

func (t *Transformer) taken(name string) bool {
	_, ok := t.seen[name]
	return ok
}
