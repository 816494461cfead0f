// Package aggregator fans out to every configured source client, assembles a
// snapshot draft from the normalized sub-records and computes the composite
// score. Fetches are issued concurrently and always joined: a failed source is
// substituted with its documented fallback where one exists instead of
// aborting the whole aggregation.
package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"devflow/internal/cache"
	"devflow/internal/middleware"
	"devflow/internal/models"
	"devflow/internal/observability"
	"devflow/internal/sources"
)

// Aggregator builds snapshot drafts from the configured source clients.
type Aggregator struct {
	sources *sources.Set
	timeout time.Duration
}

// New returns an Aggregator with the given per-fetch deadline.
func New(set *sources.Set, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Aggregator{sources: set, timeout: timeout}
}

// BuildDraft invokes every source client concurrently, waits for all fetches
// to settle and assembles the draft. Sources with a documented fallback
// (news, weather) degrade to it on failure; the optional github slot is left
// empty on failure; crypto and community have no fallback, so their failure
// fails the draft and nothing is persisted downstream.
func (a *Aggregator) BuildDraft(ctx context.Context) (*models.SnapshotDraft, error) {
	var (
		wg sync.WaitGroup

		crypto    models.CryptoData
		news      models.NewsData
		community models.CommunityData
		weather   models.WeatherData
		github    *models.GithubData

		cryptoErr, newsErr, communityErr, weatherErr, githubErr error
	)

	span, ctx := observability.NewSpan(ctx, "aggregator.build_draft")
	defer span.End()

	wg.Add(5)
	go func() {
		defer wg.Done()
		crypto, cryptoErr = settle(ctx, a.timeout, a.sources.Crypto)
	}()
	go func() {
		defer wg.Done()
		news, newsErr = settle(ctx, a.timeout, a.sources.News)
	}()
	go func() {
		defer wg.Done()
		community, communityErr = settle(ctx, a.timeout, a.sources.Community)
	}()
	go func() {
		defer wg.Done()
		weather, weatherErr = settle(ctx, a.timeout, a.sources.Weather)
	}()
	go func() {
		defer wg.Done()
		github, githubErr = settle(ctx, a.timeout, a.sources.Github)
	}()
	wg.Wait()

	// Substitute fallbacks where the source defines one.
	if newsErr != nil {
		middleware.Logger.WarnContext(ctx, "news source failed, using fallback",
			slog.String("error", newsErr.Error()))
		observability.SourceFetchOutcomes.WithLabelValues(a.sources.News.Name(), "fallback").Inc()
		news = a.sources.News.Fallback()
	}
	if weatherErr != nil {
		middleware.Logger.WarnContext(ctx, "weather source failed, using fallback",
			slog.String("error", weatherErr.Error()))
		observability.SourceFetchOutcomes.WithLabelValues(a.sources.Weather.Name(), "fallback").Inc()
		weather = a.sources.Weather.Fallback()
	}
	if githubErr != nil {
		middleware.Logger.WarnContext(ctx, "github source failed, omitting sub-record",
			slog.String("error", githubErr.Error()))
		github = nil
	}

	// No fallback is defined for these; the refresh fails as a whole.
	if cryptoErr != nil {
		span.SetError(cryptoErr)
		return nil, cryptoErr
	}
	if communityErr != nil {
		span.SetError(communityErr)
		return nil, communityErr
	}

	draft := &models.SnapshotDraft{
		Timestamp: time.Now().UTC(),
		Crypto:    crypto,
		News:      news,
		Community: community,
		Weather:   weather,
		Github:    github,
	}

	score := ComputeScore(draft)
	draft.AIScore = &score
	observability.SnapshotScore.Observe(float64(score))

	return draft, nil
}

// settle runs one fetch under its own deadline, with short-TTL caching so
// back-to-back refreshes do not hammer the public providers.
func settle[T any](ctx context.Context, timeout time.Duration, client sources.Client[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	span, ctx := observability.NewSpan(ctx, "source.fetch."+client.Name())
	defer span.End()

	start := time.Now()
	var out T
	err := cache.Aside(ctx, cache.SourceKey(client.Name()), &out, cache.SourceTTL, func() error {
		v, err := client.Fetch(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		span.SetError(err)
		observability.ObserveFetch(client.Name(), "error", start)
		return out, err
	}

	observability.ObserveFetch(client.Name(), "ok", start)
	return out, nil
}
