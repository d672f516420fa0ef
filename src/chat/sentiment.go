package chat

import "strings"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// DeriveSentiment is the fallback keyword classifier used when the endpoint
// omits a sentiment label. It mirrors the endpoint's own naive matching.
func DeriveSentiment(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "happy") || strings.Contains(lower, "positive"):
		return SentimentPositive
	case strings.Contains(lower, "sad") || strings.Contains(lower, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
