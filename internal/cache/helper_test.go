package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestGetSetJSON_RoundTrip(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "a", Score: 7}, time.Minute))

	var got payload
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Score: 7}, got)
}

func TestGetJSON_Miss(t *testing.T) {
	setupMiniredis(t)

	var got payload
	found, err := GetJSON(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetSetJSON_NilClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "k", payload{}, time.Minute))
	found, err := GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside_MissFetchesAndPopulates(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "fetched", Score: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", first.Name)
	assert.True(t, mr.Exists("k"))

	// second read is served from cache, the fetcher does not run again
	var second payload
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorPropagatesAndNothingIsCached(t *testing.T) {
	mr := setupMiniredis(t)

	var got payload
	wantErr := errors.New("upstream down")
	err := Aside(context.Background(), "k", &got, time.Minute, func() error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.False(t, mr.Exists("k"))
}

func TestAside_ExpiredEntryRefetches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "v", Score: calls}
			return nil
		}
	}

	var got payload
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch(&got)))
	mr.FastForward(2 * time.Minute)

	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch(&got)))
	assert.Equal(t, 2, calls)
}

func TestInvalidateHistory(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, HistoryKey(1), payload{}, time.Minute))
	require.NoError(t, SetJSON(ctx, HistoryKey(2), payload{}, time.Minute))

	InvalidateHistory(ctx, 1)

	assert.False(t, mr.Exists(HistoryKey(1)))
	assert.True(t, mr.Exists(HistoryKey(2)))
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(5), payload{}, time.Minute))
	InvalidateUser(ctx, 5)
	assert.False(t, mr.Exists(UserKey(5)))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "history:12", HistoryKey(12))
	assert.Equal(t, "source:crypto", SourceKey("crypto"))
	assert.Equal(t, "user:3", UserKey(3))
}
