package markets

import (
	"context"
	"fmt"

	"OddsCast/internal/domain/models"
	domrepo "OddsCast/internal/domain/repository"
	xhttp "OddsCast/pkg/http"

	"github.com/tidwall/gjson"
)

// KalshiClient polls the Kalshi market endpoint for current per-candidate
// order book views. Read-only, no auth.
type KalshiClient struct {
	url    string
	client *xhttp.Client
}

// NewKalshi creates a Kalshi source.
func NewKalshi(url string, client *xhttp.Client) domrepo.KalshiSource {
	return &KalshiClient{url: url, client: client}
}

// Fetch returns one quote per candidate. Kalshi quotes in cents, which
// map one-to-one onto probability percent.
func (c *KalshiClient) Fetch(ctx context.Context) ([]models.KalshiQuote, error) {
	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("kalshi fetch: %w", err)
	}

	mkts := gjson.GetBytes(body, "markets")
	if !mkts.IsArray() {
		return nil, fmt.Errorf("kalshi fetch: missing markets array")
	}

	var quotes []models.KalshiQuote
	mkts.ForEach(func(_, m gjson.Result) bool {
		name := m.Get("candidate").String()
		if name == "" {
			return true
		}
		quotes = append(quotes, models.KalshiQuote{
			Name:     name,
			Last:     m.Get("last_price").Float(),
			YesBid:   m.Get("yes_bid").Float(),
			YesAsk:   m.Get("yes_ask").Float(),
			BidDepth: m.Get("bid_depth").Float(),
			AskDepth: m.Get("ask_depth").Float(),
		})
		return true
	})

	if len(quotes) == 0 {
		return nil, fmt.Errorf("kalshi fetch: no candidates in response")
	}
	return quotes, nil
}
