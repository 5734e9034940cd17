// Package entity defines the read models served by the sentiment feature.
// Every model is built fresh per request and never mutated afterwards.
package entity

// Provenance identifies which rung of the fallback ladder produced a result.
type Provenance string

const (
	// ProvenanceLive marks data returned by the n8n webhook.
	ProvenanceLive Provenance = "n8n"
	// ProvenanceStatic marks data read from a bundled fixture.
	ProvenanceStatic Provenance = "static"
	// ProvenanceFallback marks data synthesized by the mock generator or a built-in default.
	ProvenanceFallback Provenance = "fallback"
)

// IsLive reports whether the data came from the authoritative source.
func (p Provenance) IsLive() bool {
	return p == ProvenanceLive
}

// Classification is the three-way sentiment label of a post or mention.
type Classification string

const (
	Bullish Classification = "bullish"
	Bearish Classification = "bearish"
	Neutral Classification = "neutral"
)

// ClassificationFromLabel maps the webhook's positive/negative labels.
// Anything else is neutral.
func ClassificationFromLabel(label string) Classification {
	switch label {
	case "positive":
		return Bullish
	case "negative":
		return Bearish
	default:
		return Neutral
	}
}

// Valid reports whether c is one of the three known classes.
func (c Classification) Valid() bool {
	return c == Bullish || c == Bearish || c == Neutral
}
