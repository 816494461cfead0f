package sources

import (
	"context"
	"net/http"
	"net/url"

	"devflow/internal/models"
)

const githubSearchURL = "https://api.github.com/search/repositories"

const maxTopRepos = 5

// GithubClient fetches the most-starred repositories for a configured language
// focus. The sub-record is optional in a snapshot: the aggregator tolerates a
// failed fetch by leaving the slot empty.
type GithubClient struct {
	http     *http.Client
	baseURL  string
	language string
}

// NewGithubClient returns a GitHub search-backed repository popularity client.
func NewGithubClient(httpClient *http.Client, language string) *GithubClient {
	if language == "" {
		language = "go"
	}
	return &GithubClient{http: httpClient, baseURL: githubSearchURL, language: language}
}

func (c *GithubClient) Name() string { return "github" }

// Fetch returns the normalized repository popularity sub-record.
func (c *GithubClient) Fetch(ctx context.Context) (*models.GithubData, error) {
	params := url.Values{}
	params.Set("q", "language:"+c.language)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", "5")

	var body struct {
		Items []struct {
			ID          int64  `json:"id"`
			FullName    string `json:"full_name"`
			HTMLURL     string `json:"html_url"`
			Description string `json:"description"`
			Language    string `json:"language"`
			Stars       int    `json:"stargazers_count"`
			Forks       int    `json:"forks_count"`
			OpenIssues  int    `json:"open_issues_count"`
		} `json:"items"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &body); err != nil {
		return nil, models.NewUpstreamError(c.Name(), err)
	}

	repos := make([]models.Repo, 0, maxTopRepos)
	for _, r := range body.Items {
		if len(repos) == maxTopRepos {
			break
		}
		repos = append(repos, models.Repo{
			ID:          r.ID,
			Name:        r.FullName,
			URL:         r.HTMLURL,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Issues:      r.OpenIssues,
		})
	}

	return &models.GithubData{
		LanguageFocus: c.language,
		TopRepos:      repos,
	}, nil
}
