// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"devflow/internal/aggregator"
	"devflow/internal/models"
	"devflow/internal/sources"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	SnapshotsPer int
	ShouldClean  bool
}

var (
	weatherConditions = []string{"Clear", "Clouds", "Rain", "Drizzle", "Thunderstorm"}

	headlinePool = []string{
		"Developers report growth in open source adoption",
		"New framework release surges past expectations",
		"Major cloud outage causes deploy failures worldwide",
		"Startup funding continues its decline this quarter",
		"AI tooling innovation drives hiring success",
		"Security incident leads to data loss at vendor",
	}
)

// Seed populates the database with demo users and snapshot history
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding %d users with %d snapshots each...", opts.NumUsers, opts.SnapshotsPer)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	gofakeit.Seed(time.Now().UnixNano())

	users := make([]models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user := models.User{
			Provider:   "google",
			ProviderID: fmt.Sprintf("seed-%s", gofakeit.UUID()),
			Name:       gofakeit.Name(),
			Email:      gofakeit.Email(),
			AvatarURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✅ Created %d users", len(users))

	total := 0
	for _, user := range users {
		for i := 0; i < opts.SnapshotsPer; i++ {
			snap := fakeSnapshot(user.ID, opts.SnapshotsPer-i)
			if err := db.Create(snap).Error; err != nil {
				return fmt.Errorf("failed to create snapshot: %w", err)
			}
			total++
		}
	}
	log.Printf("✅ Created %d snapshots", total)

	return nil
}

// fakeSnapshot builds a plausible historical snapshot, age hours in the past.
// The score is computed with the real scoring formula so seeded history lines
// up with what a live refresh would store.
func fakeSnapshot(userID uint, age int) *models.Snapshot {
	change := gofakeit.Float64Range(-8, 8)
	sentiment := gofakeit.Float64Range(-0.1, 0.1)
	avgScore := gofakeit.Float64Range(0, 12)

	sentimentLabel := models.SentimentNeutral
	if sentiment > 0.03 {
		sentimentLabel = models.SentimentPositive
	} else if sentiment < -0.03 {
		sentimentLabel = models.SentimentNegative
	}
	condition := weatherConditions[rand.Intn(len(weatherConditions))]

	draft := models.SnapshotDraft{
		Timestamp: time.Now().Add(-time.Duration(age) * time.Hour),
		Crypto: models.CryptoData{
			BTCPrice:    gofakeit.Float64Range(40000, 95000),
			BTCChange24: change,
			Trend:       sources.TrendLabel(change),
		},
		News: models.NewsData{
			SentimentScore: sentiment,
			SentimentLabel: sentimentLabel,
			TopHeadlines:   fakeHeadlines(),
		},
		Community: models.CommunityData{
			TagFilter:     "javascript;reactjs",
			QuestionCount: gofakeit.Number(20, 100),
			AvgScore:      avgScore,
			TopQuestions:  fakeQuestions(),
		},
		Weather: models.WeatherData{
			City:      gofakeit.City(),
			TempC:     gofakeit.Float64Range(-5, 35),
			Humidity:  gofakeit.Number(20, 95),
			Status:    sources.StabilityLabel(condition),
			Condition: condition,
		},
	}

	score := aggregator.ComputeScore(&draft)

	return &models.Snapshot{
		UserID:    userID,
		Timestamp: draft.Timestamp,
		Crypto:    draft.Crypto,
		News:      draft.News,
		Community: draft.Community,
		Weather:   draft.Weather,
		AIScore:   score,
	}
}

func fakeHeadlines() []models.Headline {
	n := 3 + rand.Intn(3)
	headlines := make([]models.Headline, 0, n)
	for i := 0; i < n; i++ {
		headlines = append(headlines, models.Headline{
			Title:  headlinePool[rand.Intn(len(headlinePool))],
			Source: gofakeit.Company(),
			URL:    gofakeit.URL(),
		})
	}
	return headlines
}

func fakeQuestions() []models.Question {
	n := 5
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, models.Question{
			Title: gofakeit.Question(),
			Score: gofakeit.Number(0, 40),
			Link:  gofakeit.URL(),
		})
	}
	return questions
}

// clearData removes seeded rows. Snapshots go first to respect the FK.
func clearData(db *gorm.DB) error {
	if err := db.Exec("DELETE FROM snapshots").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}
