package markets

import (
	"context"
	"fmt"

	"OddsCast/internal/domain/models"
	domrepo "OddsCast/internal/domain/repository"
	xhttp "OddsCast/pkg/http"

	"github.com/tidwall/gjson"
)

// PolymarketClient polls the Polymarket market endpoint for current
// per-candidate prices. Read-only, no auth.
type PolymarketClient struct {
	url    string
	client *xhttp.Client
}

// NewPolymarket creates a Polymarket source.
func NewPolymarket(url string, client *xhttp.Client) domrepo.PolymarketSource {
	return &PolymarketClient{url: url, client: client}
}

// Fetch returns one reading per candidate. Polymarket quotes prices in
// [0,1]; readings are converted to percent.
func (c *PolymarketClient) Fetch(ctx context.Context) ([]models.PolymarketReading, error) {
	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("polymarket fetch: %w", err)
	}

	outcomes := gjson.GetBytes(body, "outcomes")
	if !outcomes.IsArray() {
		return nil, fmt.Errorf("polymarket fetch: missing outcomes array")
	}

	var readings []models.PolymarketReading
	outcomes.ForEach(func(_, m gjson.Result) bool {
		name := m.Get("name").String()
		if name == "" {
			return true
		}
		readings = append(readings, models.PolymarketReading{
			Name:  name,
			Price: m.Get("price").Float() * 100,
		})
		return true
	})

	if len(readings) == 0 {
		return nil, fmt.Errorf("polymarket fetch: no candidates in response")
	}
	return readings, nil
}
