package sources

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"devflow/internal/models"
)

const newsAPIURL = "https://newsapi.org/v2/everything"

const newsQuery = "software development OR programming OR AI"

var (
	positiveWords = map[string]bool{
		"growth": true, "success": true, "up": true, "surge": true, "innovation": true,
	}
	negativeWords = map[string]bool{
		"down": true, "crash": true, "fail": true, "loss": true, "decline": true,
	}
	tokenSplit = regexp.MustCompile(`\W+`)
)

// NewsClient fetches tech headlines from NewsAPI and scores their sentiment.
// A missing API key is recovered locally into a neutral default sub-record.
type NewsClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewNewsClient returns a NewsAPI-backed news client.
func NewNewsClient(httpClient *http.Client, apiKey string) *NewsClient {
	return &NewsClient{http: httpClient, baseURL: newsAPIURL, apiKey: apiKey}
}

func (c *NewsClient) Name() string { return "news" }

// Fallback is the documented neutral default used when no API key is configured.
func (c *NewsClient) Fallback() models.NewsData {
	return models.NewsData{
		SentimentScore: 0,
		SentimentLabel: models.SentimentNeutral,
		TopHeadlines:   []models.Headline{},
	}
}

// Fetch returns the normalized news sentiment sub-record.
func (c *NewsClient) Fetch(ctx context.Context) (models.NewsData, error) {
	if c.apiKey == "" {
		return c.Fallback(), nil
	}

	params := url.Values{}
	params.Set("q", newsQuery)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "5")
	params.Set("language", "en")
	params.Set("apiKey", c.apiKey)

	var body struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &body); err != nil {
		return models.NewsData{}, models.NewUpstreamError(c.Name(), err)
	}

	texts := make([]string, 0, len(body.Articles))
	headlines := make([]models.Headline, 0, len(body.Articles))
	for _, a := range body.Articles {
		texts = append(texts, a.Title+" "+a.Description)
		headlines = append(headlines, models.Headline{
			Title:  a.Title,
			Source: a.Source.Name,
			URL:    a.URL,
		})
	}

	score, label := SentimentScore(texts)
	return models.NewsData{
		SentimentScore: score,
		SentimentLabel: label,
		TopHeadlines:   headlines,
	}, nil
}

// SentimentScore tokenizes the given texts on non-word boundaries and scores
// them against fixed positive and negative word sets. The running score is
// normalized by the total token count, yielding a value in roughly [-1, 1];
// zero tokens yields exactly 0. Labels: > 0.03 Positive, < -0.03 Negative,
// else Neutral.
func SentimentScore(texts []string) (float64, string) {
	score := 0
	wordCount := 0
	for _, t := range texts {
		for _, w := range tokenSplit.Split(strings.ToLower(t), -1) {
			if w == "" {
				continue
			}
			wordCount++
			if positiveWords[w] {
				score++
			}
			if negativeWords[w] {
				score--
			}
		}
	}

	normalized := 0.0
	if wordCount > 0 {
		normalized = float64(score) / float64(wordCount)
	}

	label := models.SentimentNeutral
	if normalized > 0.03 {
		label = models.SentimentPositive
	}
	if normalized < -0.03 {
		label = models.SentimentNegative
	}
	return normalized, label
}
