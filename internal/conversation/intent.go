package conversation

import (
	"regexp"
	"strings"
)

// FlightQuery is an extracted flight-search request. Date is optional; empty
// means the caller should search without a fixed date.
type FlightQuery struct {
	Origin      string
	Destination string
	Date        string
}

// Classifier decides whether an inbound text is a flight-search request and
// extracts its slots. It is a strategy interface so the regex heuristic can
// later be swapped for a real NLU component without touching the dispatcher.
type Classifier interface {
	IsFlightQuery(text string) bool
	ExtractFlightDetails(text string) (FlightQuery, bool)
}

// flightKeywords is the fixed disjunction of travel-intent phrases.
var flightKeywords = []string{
	"quero viajar",
	"tem voo",
	"passagem",
	"ida e volta",
	"só ida",
	"quanto custa",
	"quero ir para",
	"procuro voo",
}

// flightDetailsRe captures destination, origin and an optional trailing date.
// The date is either a textual "dia 10 de maio" fragment or dd/mm/yyyy.
var flightDetailsRe = regexp.MustCompile(
	`(?i)(?:quero ir para|tem voo para|passagem para|procuro voo para)\s+` +
		`([^,]+?)\s*,?\s+saindo\s+de\s+(.+?)` +
		`(?:\s+dia\s+(\d{1,2}\s+de\s+\p{L}+)|\s+(\d{1,2}/\d{1,2}/\d{4}))?\s*$`)

// RegexClassifier is the default pattern-matching Classifier. It is a
// best-effort natural-language heuristic, not a grammar; reordered or
// differently phrased requests are expected to miss and fall through to the
// AI responder.
type RegexClassifier struct{}

// NewRegexClassifier returns the default classifier.
func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{}
}

// IsFlightQuery reports whether the text contains any travel-intent phrase.
func (c *RegexClassifier) IsFlightQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range flightKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractFlightDetails pulls origin, destination and optional date out of the
// text. It returns ok=false when the text does not match the stricter
// extraction pattern, even if IsFlightQuery was true; callers must fall back
// to the AI responder in that case.
func (c *RegexClassifier) ExtractFlightDetails(text string) (FlightQuery, bool) {
	m := flightDetailsRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return FlightQuery{}, false
	}
	q := FlightQuery{
		Destination: strings.TrimSpace(m[1]),
		Origin:      strings.TrimSpace(m[2]),
	}
	if m[3] != "" {
		q.Date = strings.TrimSpace(m[3])
	} else if m[4] != "" {
		q.Date = m[4]
	}
	if q.Destination == "" || q.Origin == "" {
		return FlightQuery{}, false
	}
	return q, true
}
