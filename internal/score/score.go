package score

import (
	"math"
	"sort"

	"github.com/sentralab/sentra/internal/detect"
	"github.com/sentralab/sentra/internal/model"
)

const (
	patternShareCap = 95  // ceiling on the summed pattern contributions
	rawTotalCap     = 97  // ceiling on the raw total before sentiment
	sentimentSwing  = 0.2 // max fraction the sentiment multiplier moves the score
)

// Contribution is one category's or entity kind's capped share of the raw
// score, labelled for the explanation trace.
type Contribution struct {
	Ref     string
	Display string
	Hits    int
	Weight  float64
	order   int
}

// Outcome carries the aggregate score and the breakdown the explainer and
// advisor consume.
type Outcome struct {
	Score         model.RiskScore
	Contributions []Contribution // descending weight, declaration order on ties
	PatternTotal  float64
	EntityTotal   float64
	CoOccurrence  float64
	Raw           float64
	Multiplier    float64
}

// Aggregate folds pattern, entity and sentiment evidence into the final
// bounded score. Identical evidence always produces an identical outcome.
func Aggregate(patterns []detect.CategoryHits, entities detect.EntityScan, sentiment model.SentimentScore, th model.Thresholds) Outcome {
	out := Outcome{Multiplier: 1}

	order := 0
	var patternTotal float64
	for _, ch := range patterns {
		patternTotal += ch.Capped
		out.Contributions = append(out.Contributions, Contribution{
			Ref:     string(ch.Category),
			Display: ch.Category.DisplayName(),
			Hits:    ch.Hits,
			Weight:  ch.Capped,
			order:   order,
		})
		order++
	}
	if patternTotal > patternShareCap {
		patternTotal = patternShareCap
	}
	out.PatternTotal = patternTotal

	var entityTotal float64
	for _, kh := range entities.Kinds {
		entityTotal += kh.Capped
		out.Contributions = append(out.Contributions, Contribution{
			Ref:     string(kh.Kind),
			Display: kh.Kind.DisplayName(),
			Hits:    kh.Hits,
			Weight:  kh.Capped,
			order:   order,
		})
		order++
	}
	entityTotal += entities.CoOccurrence
	out.EntityTotal = entityTotal
	out.CoOccurrence = entities.CoOccurrence

	raw := patternTotal + entityTotal
	if raw > rawTotalCap {
		raw = rawTotalCap
	}
	out.Raw = raw

	switch sentiment.Polarity {
	case model.SentimentNegative:
		out.Multiplier = 1 + sentimentSwing*sentiment.Intensity
	case model.SentimentPositive:
		out.Multiplier = 1 - sentimentSwing*sentiment.Intensity
	}

	value := int(math.Round(raw * out.Multiplier))
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	sort.SliceStable(out.Contributions, func(i, j int) bool {
		if out.Contributions[i].Weight != out.Contributions[j].Weight {
			return out.Contributions[i].Weight > out.Contributions[j].Weight
		}
		return out.Contributions[i].order < out.Contributions[j].order
	})

	out.Score = model.RiskScore{Value: value, Level: th.Level(value)}
	return out
}

// Categories returns the pattern categories present in the outcome, in
// descending contribution order.
func (o Outcome) Categories() []model.Category {
	var cats []model.Category
	for _, c := range o.Contributions {
		if cat := model.Category(c.Ref); cat.Valid() {
			cats = append(cats, cat)
		}
	}
	return cats
}
