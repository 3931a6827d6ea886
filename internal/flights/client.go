package flights

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Offer is one fare quote returned by the search provider.
type Offer struct {
	MinPrice float64 `json:"MinPrice"`
	Direct   bool    `json:"Direct"`
}

type quotesResponse struct {
	Quotes []Offer `json:"Quotes"`
}

// Client queries the external fare-search API.
type Client struct {
	http     *resty.Client
	apiKey   string
	currency string
	locale   string
}

// NewClient creates a fare-search client against the given endpoint.
func NewClient(baseURL, apiKey, currency, locale string) *Client {
	return &Client{
		http:     resty.New().SetBaseURL(baseURL),
		apiKey:   apiKey,
		currency: currency,
		locale:   locale,
	}
}

// Quotes fetches fare quotes for the route. An empty date is passed through
// as the provider's "anytime" marker.
func (c *Client) Quotes(ctx context.Context, origin, destination, date string) ([]Offer, error) {
	if strings.TrimSpace(date) == "" {
		date = "anytime"
	}

	var out quotesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-RapidAPI-Key", c.apiKey).
		SetQueryParams(map[string]string{
			"origin":      origin,
			"destination": destination,
			"departDate":  date,
			"currency":    c.currency,
			"locale":      c.locale,
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("flights: fare search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("flights: fare search returned status %d", resp.StatusCode())
	}
	return out.Quotes, nil
}
