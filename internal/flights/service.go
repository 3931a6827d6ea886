package flights

import (
	"context"
	"fmt"
	"strings"

	"github.com/viajai/whatsapp-travel-bot/internal/conversation"
	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

// NoFaresMessage is sent when the provider has no quotes or the call fails.
const NoFaresMessage = "Não encontrei passagens para essa data. Tente outra!"

// maxFormattedOffers caps how many quotes get listed in one reply.
const maxFormattedOffers = 3

// placeholderOffers back the degraded mode: when enabled, an empty or failed
// search is answered with these canned quotes instead of NoFaresMessage.
var placeholderOffers = []Offer{
	{MinPrice: 449, Direct: true},
	{MinPrice: 499, Direct: false},
	{MinPrice: 529, Direct: true},
}

// FareClient is the external fare-search boundary.
type FareClient interface {
	Quotes(ctx context.Context, origin, destination, date string) ([]Offer, error)
}

// Service turns fare quotes into user-facing reply text.
type Service struct {
	client          FareClient
	usePlaceholders bool
	logger          *logging.Logger
}

// NewService creates a flight-lookup service. With usePlaceholders set, the
// service answers empty or failed searches with canned placeholder quotes
// (degraded mode) rather than the no-fares message.
func NewService(client FareClient, usePlaceholders bool, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{client: client, usePlaceholders: usePlaceholders, logger: logger}
}

// Search looks up fares for the query and formats up to three offers as a
// numbered list. Provider errors are logged and treated the same as an empty
// result; they never reach the user as raw errors.
func (s *Service) Search(ctx context.Context, q conversation.FlightQuery) string {
	offers, err := s.client.Quotes(ctx, q.Origin, q.Destination, q.Date)
	if err != nil {
		s.logger.Error("fare search failed",
			"error", err,
			"origin", q.Origin,
			"destination", q.Destination,
		)
		offers = nil
	}

	if len(offers) == 0 {
		if !s.usePlaceholders {
			return NoFaresMessage
		}
		s.logger.Warn("no fares found, answering with placeholder offers",
			"origin", q.Origin,
			"destination", q.Destination,
		)
		offers = placeholderOffers
	}

	return formatOffers(q, offers)
}

func formatOffers(q conversation.FlightQuery, offers []Offer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✈️ Encontrei essas opções de %s para %s:\n", q.Origin, q.Destination)

	limit := len(offers)
	if limit > maxFormattedOffers {
		limit = maxFormattedOffers
	}
	for i := 0; i < limit; i++ {
		kind := "com conexões"
		if offers[i].Direct {
			kind = "voo direto"
		}
		fmt.Fprintf(&b, "%d. R$ %.2f - %s\n", i+1, offers[i].MinPrice, kind)
	}
	return strings.TrimRight(b.String(), "\n")
}
