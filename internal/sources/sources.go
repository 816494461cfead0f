// Package sources contains one client per external data provider. Each client
// normalizes the provider's response into a fixed sub-record and reports
// upstream failures as typed errors; clients with a documented fallback return
// a neutral default instead of failing when their credential is missing.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"devflow/internal/config"
	"devflow/internal/models"
)

// Client fetches one normalized sub-record of type T from an external
// read-only data provider. Single attempt, no retries; callers own deadlines.
type Client[T any] interface {
	Name() string
	Fetch(ctx context.Context) (T, error)
}

// Set bundles the configured clients for one deployment.
type Set struct {
	Crypto    *CryptoClient
	News      *NewsClient
	Community *CommunityClient
	Weather   *WeatherClient
	Github    *GithubClient
}

// NewSet builds all source clients from configuration with a shared HTTP client.
func NewSet(cfg *config.Config) *Set {
	httpClient := &http.Client{Timeout: cfg.SourceTimeout()}
	return &Set{
		Crypto:    NewCryptoClient(httpClient),
		News:      NewNewsClient(httpClient, cfg.NewsAPIKey),
		Community: NewCommunityClient(httpClient, cfg.CommunityTags),
		Weather:   NewWeatherClient(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherCity, cfg.OpenWeatherCountry),
		Github:    NewGithubClient(httpClient, cfg.GithubLanguage),
	}
}

// getJSON performs a GET request and decodes the JSON body into dest.
func getJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

var _ Client[models.CryptoData] = (*CryptoClient)(nil)
var _ Client[models.NewsData] = (*NewsClient)(nil)
var _ Client[models.CommunityData] = (*CommunityClient)(nil)
var _ Client[models.WeatherData] = (*WeatherClient)(nil)
var _ Client[*models.GithubData] = (*GithubClient)(nil)
