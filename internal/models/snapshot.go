package models

import (
	"time"
)

// Trend labels derived from the BTC 24h change.
const (
	TrendBullish  = "Bullish"
	TrendBearish  = "Bearish"
	TrendSideways = "Sideways"
)

// Sentiment labels derived from the normalized news score.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Weather stability labels.
const (
	WeatherStable   = "Stable"
	WeatherUnstable = "Unstable"
)

// CryptoData is the normalized crypto market sub-record.
type CryptoData struct {
	BTCPrice    float64 `json:"btcPrice"`
	BTCChange24 float64 `json:"btcChange24h"`
	Trend       string  `json:"trend"`
}

// Headline is one news item kept inside a NewsData sub-record.
type Headline struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// NewsData is the normalized news sentiment sub-record.
type NewsData struct {
	SentimentScore float64    `json:"sentimentScore"`
	SentimentLabel string     `json:"sentimentLabel"`
	TopHeadlines   []Headline `json:"topHeadlines"`
}

// Question is one community question kept inside a CommunityData sub-record.
type Question struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Score int    `json:"score"`
}

// CommunityData is the normalized community activity sub-record.
type CommunityData struct {
	TagFilter     string     `json:"tagFilter"`
	QuestionCount int        `json:"questionCount"`
	AvgScore      float64    `json:"avgScore"`
	TopQuestions  []Question `json:"topQuestions"`
}

// WeatherData is the normalized weather sub-record.
type WeatherData struct {
	City      string  `json:"city"`
	TempC     float64 `json:"tempC"`
	Humidity  int     `json:"humidity"`
	Status    string  `json:"status"`
	Condition string  `json:"condition"`
}

// Repo is one repository entry kept inside a GithubData sub-record.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Issues      int    `json:"issues"`
}

// GithubData is the optional repository-popularity sub-record.
type GithubData struct {
	LanguageFocus string `json:"languageFocus"`
	TopRepos      []Repo `json:"topRepos"`
}

// Snapshot is one immutable aggregation result owned by a single user.
// Sub-records are value objects serialized into JSON columns; they have no
// identity or lifecycle of their own. AIScore is always within [0,100].
type Snapshot struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index:idx_snapshots_user_time,priority:1" json:"user_id"`
	User      User          `gorm:"foreignKey:UserID" json:"-"`
	Timestamp time.Time     `gorm:"not null;index:idx_snapshots_user_time,priority:2,sort:desc" json:"timestamp"`
	Crypto    CryptoData    `gorm:"serializer:json" json:"crypto"`
	News      NewsData      `gorm:"serializer:json" json:"news"`
	Community CommunityData `gorm:"serializer:json" json:"community"`
	Weather   WeatherData   `gorm:"serializer:json" json:"weather"`
	Github    *GithubData   `gorm:"serializer:json" json:"github,omitempty"`
	AIScore   int           `gorm:"not null" json:"aiScore"`
	CreatedAt time.Time     `json:"created_at"`
}

// SnapshotDraft is an assembled-but-unsaved aggregation result. The aggregator
// fills it; the scorer reads it; the store persists it.
type SnapshotDraft struct {
	Timestamp time.Time     `json:"timestamp"`
	Crypto    CryptoData    `json:"crypto"`
	News      NewsData      `json:"news"`
	Community CommunityData `json:"community"`
	Weather   WeatherData   `json:"weather"`
	Github    *GithubData   `json:"github,omitempty"`
	AIScore   *int          `json:"aiScore"`
}
