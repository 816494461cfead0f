package sources

import (
	"context"
	"net/http"

	"devflow/internal/models"
)

const coingeckoURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=usd&include_24hr_change=true"

// CryptoClient fetches BTC market data from CoinGecko. No credential is
// required and no fallback is defined: an unreachable provider fails the fetch.
type CryptoClient struct {
	http    *http.Client
	baseURL string
}

// NewCryptoClient returns a CoinGecko-backed crypto client.
func NewCryptoClient(httpClient *http.Client) *CryptoClient {
	return &CryptoClient{http: httpClient, baseURL: coingeckoURL}
}

func (c *CryptoClient) Name() string { return "crypto" }

// Fetch returns the normalized crypto sub-record.
func (c *CryptoClient) Fetch(ctx context.Context) (models.CryptoData, error) {
	var body struct {
		Bitcoin struct {
			USD         float64 `json:"usd"`
			USD24Change float64 `json:"usd_24h_change"`
		} `json:"bitcoin"`
	}
	if err := getJSON(ctx, c.http, c.baseURL, &body); err != nil {
		return models.CryptoData{}, models.NewUpstreamError(c.Name(), err)
	}

	change := body.Bitcoin.USD24Change
	return models.CryptoData{
		BTCPrice:    body.Bitcoin.USD,
		BTCChange24: change,
		Trend:       TrendLabel(change),
	}, nil
}

// TrendLabel maps a 24h percentage change to a trend label.
func TrendLabel(change float64) string {
	switch {
	case change > 3:
		return models.TrendBullish
	case change < -3:
		return models.TrendBearish
	default:
		return models.TrendSideways
	}
}
