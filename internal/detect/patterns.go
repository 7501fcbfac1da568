package detect

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sentralab/sentra/internal/model"
)

// RuleSet holds the compiled patterns for one category. Contribution to the
// aggregate is min(Cap, hits × BaseWeight): the cap keeps one repeated
// pattern from dominating the score.
type RuleSet struct {
	Category   model.Category
	BaseWeight float64
	Cap        float64
	patterns   []*regexp.Regexp
}

// PatternCount returns the number of compiled patterns in the set.
func (rs *RuleSet) PatternCount() int {
	return len(rs.patterns)
}

// Registry holds all rule-sets, compiled once at load and read-only
// afterwards. Safe for concurrent use without locking.
type Registry struct {
	rules []*RuleSet
	byCat map[model.Category]*RuleSet
}

var (
	defaultRegistry *Registry
	registryOnce    sync.Once
)

// Default returns the compiled built-in registry. Patterns are code-as-data,
// versioned with the engine; a malformed pattern fails here at load, never
// per call.
func Default() *Registry {
	registryOnce.Do(func() {
		defaultRegistry = newRegistry()
	})
	return defaultRegistry
}

func newRegistry() *Registry {
	r := &Registry{byCat: make(map[model.Category]*RuleSet)}
	for _, def := range ruleDefinitions {
		rs := &RuleSet{
			Category:   def.category,
			BaseWeight: def.baseWeight,
			Cap:        def.baseWeight * 2,
		}
		for _, p := range def.patterns {
			rs.patterns = append(rs.patterns, regexp.MustCompile(p))
		}
		r.rules = append(r.rules, rs)
		r.byCat[def.category] = rs
	}
	return r
}

// RuleSets returns the rule-sets in declaration order.
func (r *Registry) RuleSets() []*RuleSet {
	return r.rules
}

// RuleSet returns the rule-set for a category, or nil.
func (r *Registry) RuleSet(cat model.Category) *RuleSet {
	return r.byCat[cat]
}

// CategoryHits summarizes one category's evidence after overlap suppression.
type CategoryHits struct {
	Category model.Category
	Hits     int
	Raw      float64 // Hits × BaseWeight
	Capped   float64 // min(Cap, Raw)
}

var reWhitespace = regexp.MustCompile(`\s+`)

// Normalize case-folds and collapses whitespace. All detectors operate on the
// normalized form; match offsets reference it.
func Normalize(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(strings.ToLower(text), " "))
}

// Scan tests every pattern of every category against normalized text and
// returns the surviving matches plus per-category hit summaries, both in
// category declaration order.
//
// Within a category, overlapping matches are not double-counted: candidates
// are ordered leftmost-first (ties to the earlier-declared pattern) and the
// scan continues after the end offset of each kept match.
func (r *Registry) Scan(text string) ([]model.Match, []CategoryHits) {
	var matches []model.Match
	var hits []CategoryHits

	for _, rs := range r.rules {
		kept := rs.scan(text)
		if len(kept) == 0 {
			continue
		}
		matches = append(matches, kept...)
		raw := float64(len(kept)) * rs.BaseWeight
		capped := raw
		if capped > rs.Cap {
			capped = rs.Cap
		}
		hits = append(hits, CategoryHits{
			Category: rs.Category,
			Hits:     len(kept),
			Raw:      raw,
			Capped:   capped,
		})
	}
	return matches, hits
}

type span struct {
	start, end int
	pattern    int
}

func (rs *RuleSet) scan(text string) []model.Match {
	var candidates []span
	for i, p := range rs.patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			candidates = append(candidates, span{start: loc[0], end: loc[1], pattern: i})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].pattern < candidates[j].pattern
	})

	var kept []model.Match
	lastEnd := -1
	for _, c := range candidates {
		if c.start < lastEnd {
			continue
		}
		kept = append(kept, model.Match{
			Source:   model.SourcePattern,
			Category: rs.Category,
			Text:     text[c.start:c.end],
			Start:    c.start,
			End:      c.end,
			Weight:   rs.BaseWeight,
		})
		lastEnd = c.end
	}
	return kept
}
