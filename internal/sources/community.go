package sources

import (
	"context"
	"net/http"
	"net/url"

	"devflow/internal/models"
)

const stackexchangeURL = "https://api.stackexchange.com/2.3/questions"

const maxTopQuestions = 5

// CommunityClient fetches recent question activity from the StackExchange API
// for a configured tag filter. No credential is required and no fallback is
// defined: an unreachable provider fails the fetch.
type CommunityClient struct {
	http      *http.Client
	baseURL   string
	tagFilter string
}

// NewCommunityClient returns a StackExchange-backed community client.
func NewCommunityClient(httpClient *http.Client, tagFilter string) *CommunityClient {
	if tagFilter == "" {
		tagFilter = "javascript;reactjs"
	}
	return &CommunityClient{http: httpClient, baseURL: stackexchangeURL, tagFilter: tagFilter}
}

func (c *CommunityClient) Name() string { return "community" }

// Fetch returns the normalized community activity sub-record.
func (c *CommunityClient) Fetch(ctx context.Context) (models.CommunityData, error) {
	params := url.Values{}
	params.Set("order", "desc")
	params.Set("sort", "activity")
	params.Set("tagged", c.tagFilter)
	params.Set("site", "stackoverflow")

	var body struct {
		Items []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
			Score int    `json:"score"`
		} `json:"items"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &body); err != nil {
		return models.CommunityData{}, models.NewUpstreamError(c.Name(), err)
	}

	questionCount := len(body.Items)
	avgScore := 0.0
	if questionCount > 0 {
		sum := 0
		for _, q := range body.Items {
			sum += q.Score
		}
		avgScore = float64(sum) / float64(questionCount)
	}

	top := make([]models.Question, 0, maxTopQuestions)
	for _, q := range body.Items {
		if len(top) == maxTopQuestions {
			break
		}
		top = append(top, models.Question{Title: q.Title, Link: q.Link, Score: q.Score})
	}

	return models.CommunityData{
		TagFilter:     c.tagFilter,
		QuestionCount: questionCount,
		AvgScore:      avgScore,
		TopQuestions:  top,
	}, nil
}
