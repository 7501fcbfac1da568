package detect

import (
	"regexp"
	"strings"

	"github.com/sentralab/sentra/internal/model"
)

// coOccurrenceBonus is added once when weapon terms and threat verbs appear
// together: naming a weapon next to action language outranks either alone.
const coOccurrenceBonus = 20

// TermSet is a curated list of risk terms for one entity kind, matched as
// whole words against normalized text.
type TermSet struct {
	Kind   model.EntityKind
	Weight float64 // per occurrence
	Cap    float64 // ceiling on hits × Weight
	terms  []string
	re     *regexp.Regexp
}

// Terms returns the term list in declaration order.
func (ts *TermSet) Terms() []string {
	return ts.terms
}

func newTermSet(kind model.EntityKind, weight, cap float64, terms ...string) *TermSet {
	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = regexp.QuoteMeta(t)
	}
	return &TermSet{
		Kind:   kind,
		Weight: weight,
		Cap:    cap,
		terms:  terms,
		re:     regexp.MustCompile(`\b(?:` + strings.Join(escaped, `|`) + `)\b`),
	}
}

var termSets = []*TermSet{
	newTermSet(model.KindWeapon, 8, 32,
		"gun", "rifle", "pistol", "bomb", "explosive", "grenade", "missile",
		"rpg", "ied", "weapon", "ammunition", "detonator", "c4", "tnt"),
	newTermSet(model.KindThreatVerb, 10, 40,
		"threat", "attack", "target", "victim", "hostage", "kidnap",
		"assassination", "execute", "eliminate", "plant"),
	newTermSet(model.KindLocation, 4, 16,
		"warehouse", "coordinates", "safe house", "drop point", "rendezvous",
		"border", "checkpoint", "facility", "station"),
}

// TermSets returns the built-in term sets in declaration order.
func TermSets() []*TermSet {
	return termSets
}

// KindHits summarizes the occurrences of one entity kind.
type KindHits struct {
	Kind   model.EntityKind
	Hits   int
	Raw    float64 // Hits × Weight
	Capped float64 // min(Cap, Raw)
}

// EntityScan is the outcome of one entity pass over normalized text.
type EntityScan struct {
	Matches      []model.Match
	Kinds        []KindHits
	CoOccurrence float64
}

// Entities scans normalized text for curated risk terms. Every occurrence is
// reported as a match; the per-kind contribution is min(Cap, hits × Weight).
func Entities(text string) EntityScan {
	var out EntityScan
	seen := make(map[model.EntityKind]bool)

	for _, ts := range termSets {
		locs := ts.re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		seen[ts.Kind] = true
		for _, loc := range locs {
			out.Matches = append(out.Matches, model.Match{
				Source: model.SourceEntity,
				Kind:   ts.Kind,
				Text:   text[loc[0]:loc[1]],
				Start:  loc[0],
				End:    loc[1],
				Weight: ts.Weight,
			})
		}
		raw := float64(len(locs)) * ts.Weight
		capped := raw
		if capped > ts.Cap {
			capped = ts.Cap
		}
		out.Kinds = append(out.Kinds, KindHits{
			Kind:   ts.Kind,
			Hits:   len(locs),
			Raw:    raw,
			Capped: capped,
		})
	}

	if seen[model.KindWeapon] && seen[model.KindThreatVerb] {
		out.CoOccurrence = coOccurrenceBonus
	}
	return out
}
