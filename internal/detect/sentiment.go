package detect

import (
	"math"

	"github.com/sentralab/sentra/internal/model"
)

// neutralBand is the dead zone around a balanced lexicon count. Mixed text
// lands here and must not swing the aggregate either way.
const neutralBand = 0.3

var negativeTerms = newTermSet(model.EntityKind("negative"), 1, 0,
	"hate", "angry", "terrible", "awful", "kill", "threat", "danger",
	"attack", "destroy", "furious", "outrage", "alarming", "crisis")

var positiveTerms = newTermSet(model.EntityKind("positive"), 1, 0,
	"great", "wonderful", "love", "happy", "excellent", "beautiful",
	"fantastic", "amazing", "good", "nice", "excited", "pleased")

// Sentiment scores normalized text against the built-in lexicons. The
// polarity balance is (pos − neg) / (pos + neg); anything inside the neutral
// band reports as neutral with zero intensity.
func Sentiment(text string) model.SentimentScore {
	pos := len(positiveTerms.re.FindAllStringIndex(text, -1))
	neg := len(negativeTerms.re.FindAllStringIndex(text, -1))

	if pos+neg == 0 {
		return model.SentimentScore{Polarity: model.SentimentNeutral}
	}

	balance := float64(pos-neg) / float64(pos+neg)
	if math.Abs(balance) <= neutralBand {
		return model.SentimentScore{Polarity: model.SentimentNeutral}
	}
	if balance > 0 {
		return model.SentimentScore{Polarity: model.SentimentPositive, Intensity: balance}
	}
	return model.SentimentScore{Polarity: model.SentimentNegative, Intensity: -balance}
}
