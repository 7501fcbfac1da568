package detect

import (
	"math"
	"testing"

	"github.com/sentralab/sentra/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Hello World", "hello world"},
		{"collapses whitespace", "a\t\tb\n\nc   d", "a b c d"},
		{"trims edges", "  padded  ", "padded"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanCountsAndCaps(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category model.Category
		hits     int
		capped   float64
	}{
		{
			name:     "single keyword",
			text:     "they plan to attack the building",
			category: model.CategoryViolence,
			hits:     1,
			capped:   35,
		},
		{
			name:     "hits accumulate across patterns",
			text:     "hack the server then exfiltrate the breach logs",
			category: model.CategoryCybersecurity,
			hits:     3,
			capped:   56,
		},
		{
			name:     "cap holds at twice the base weight",
			text:     "kill kill kill kill kill",
			category: model.CategoryViolence,
			hits:     5,
			capped:   70,
		},
		{
			name:     "phrasal pattern",
			text:     "urgent: verify your account now",
			category: model.CategorySocialEngineering,
			hits:     1,
			capped:   22,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hits := Default().Scan(Normalize(tt.text))
			var got *CategoryHits
			for i := range hits {
				if hits[i].Category == tt.category {
					got = &hits[i]
				}
			}
			if got == nil {
				t.Fatalf("category %s not reported for %q", tt.category, tt.text)
			}
			if got.Hits != tt.hits {
				t.Errorf("hits = %d, want %d", got.Hits, tt.hits)
			}
			if got.Capped != tt.capped {
				t.Errorf("capped = %.1f, want %.1f", got.Capped, tt.capped)
			}
		})
	}
}

func TestScanOverlapSuppression(t *testing.T) {
	// "plant a bomb" satisfies both the staging pattern and the bare keyword;
	// the leftmost span wins and the keyword inside it is not double-counted.
	matches, hits := Default().Scan("i will plant a bomb at the station tomorrow")

	var violence *CategoryHits
	for i := range hits {
		if hits[i].Category == model.CategoryViolence {
			violence = &hits[i]
		}
	}
	if violence == nil {
		t.Fatal("violence not reported")
	}
	if violence.Hits != 1 {
		t.Errorf("violence hits = %d, want 1", violence.Hits)
	}

	for _, m := range matches {
		if m.Category == model.CategoryViolence && m.Text != "plant a bomb" {
			t.Errorf("kept match = %q, want the leftmost span %q", m.Text, "plant a bomb")
		}
	}
}

func TestScanClean(t *testing.T) {
	matches, hits := Default().Scan(Normalize("Good morning team, great job on the report!"))
	if len(matches) != 0 {
		t.Errorf("matches = %d, want 0", len(matches))
	}
	if len(hits) != 0 {
		t.Errorf("categories = %d, want 0", len(hits))
	}
}

func TestEntities(t *testing.T) {
	scan := Entities("the gun and the rifle target the hostage at the warehouse")

	if len(scan.Matches) != 5 {
		t.Errorf("matches = %d, want 5", len(scan.Matches))
	}
	want := map[model.EntityKind]KindHits{
		model.KindWeapon:     {Kind: model.KindWeapon, Hits: 2, Raw: 16, Capped: 16},
		model.KindThreatVerb: {Kind: model.KindThreatVerb, Hits: 2, Raw: 20, Capped: 20},
		model.KindLocation:   {Kind: model.KindLocation, Hits: 1, Raw: 4, Capped: 4},
	}
	for _, kh := range scan.Kinds {
		w, ok := want[kh.Kind]
		if !ok {
			t.Errorf("unexpected kind %s", kh.Kind)
			continue
		}
		if kh != w {
			t.Errorf("%s = %+v, want %+v", kh.Kind, kh, w)
		}
	}
	if scan.CoOccurrence != coOccurrenceBonus {
		t.Errorf("co-occurrence = %.1f, want %.1f", scan.CoOccurrence, float64(coOccurrenceBonus))
	}
}

func TestEntitiesKindCap(t *testing.T) {
	scan := Entities("gun gun gun gun gun")
	if len(scan.Kinds) != 1 {
		t.Fatalf("kinds = %d, want 1", len(scan.Kinds))
	}
	kh := scan.Kinds[0]
	if kh.Hits != 5 || kh.Raw != 40 || kh.Capped != 32 {
		t.Errorf("weapon summary = %+v, want hits 5 raw 40 capped 32", kh)
	}
	if scan.CoOccurrence != 0 {
		t.Errorf("co-occurrence = %.1f, want 0 without threat language", scan.CoOccurrence)
	}
}

func TestEntitiesWholeWord(t *testing.T) {
	// "gunner" and "stationary" must not count as entity occurrences.
	scan := Entities("the gunner remained stationary")
	if len(scan.Matches) != 0 {
		t.Errorf("matches = %d, want 0 for embedded substrings", len(scan.Matches))
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		polarity  model.Polarity
		intensity float64
	}{
		{"all positive", "great wonderful happy", model.SentimentPositive, 1.0},
		{"all negative", "hate this terrible awful crisis", model.SentimentNegative, 1.0},
		{"balanced is neutral", "great but terrible", model.SentimentNeutral, 0},
		{"no lexicon terms", "the quarterly figures arrived", model.SentimentNeutral, 0},
		{"lean positive", "great excellent nice but awful", model.SentimentPositive, 0.5},
		{"inside the dead band", "great good nice awful terrible", model.SentimentNeutral, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentiment(Normalize(tt.text))
			if got.Polarity != tt.polarity {
				t.Errorf("polarity = %s, want %s", got.Polarity, tt.polarity)
			}
			if math.Abs(got.Intensity-tt.intensity) > 1e-9 {
				t.Errorf("intensity = %.3f, want %.3f", got.Intensity, tt.intensity)
			}
		})
	}
}
