package sources

import (
	"context"
	"net/http"
	"net/url"

	"devflow/internal/models"
)

const openweatherURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherClient fetches current conditions from OpenWeather for a configured
// city. A missing API key is recovered locally into a neutral default.
type WeatherClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	city    string
	country string
}

// NewWeatherClient returns an OpenWeather-backed weather client.
func NewWeatherClient(httpClient *http.Client, apiKey, city, country string) *WeatherClient {
	if city == "" {
		city = "London"
	}
	if country == "" {
		country = "GB"
	}
	return &WeatherClient{http: httpClient, baseURL: openweatherURL, apiKey: apiKey, city: city, country: country}
}

func (c *WeatherClient) Name() string { return "weather" }

// Fallback is the documented neutral default used when no API key is configured.
func (c *WeatherClient) Fallback() models.WeatherData {
	return models.WeatherData{
		City:      c.city,
		TempC:     25,
		Humidity:  50,
		Status:    "Unknown",
		Condition: "Unknown",
	}
}

// Fetch returns the normalized weather sub-record.
func (c *WeatherClient) Fetch(ctx context.Context) (models.WeatherData, error) {
	if c.apiKey == "" {
		return c.Fallback(), nil
	}

	params := url.Values{}
	params.Set("q", c.city+","+c.country)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var body struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &body); err != nil {
		return models.WeatherData{}, models.NewUpstreamError(c.Name(), err)
	}

	condition := "Clear"
	if len(body.Weather) > 0 && body.Weather[0].Main != "" {
		condition = body.Weather[0].Main
	}

	return models.WeatherData{
		City:      c.city,
		TempC:     body.Main.Temp,
		Humidity:  body.Main.Humidity,
		Status:    StabilityLabel(condition),
		Condition: condition,
	}, nil
}

// StabilityLabel maps a primary weather condition to a stability label.
// Severe categories read as Unstable; everything else is Stable.
func StabilityLabel(condition string) string {
	if condition == "Thunderstorm" || condition == "Extreme" {
		return models.WeatherUnstable
	}
	return models.WeatherStable
}
