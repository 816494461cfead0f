package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devflow/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func snapshotApp(s *Server) *fiber.App {
	app := fiber.New()
	snapshots := app.Group("/api/snapshots", s.AuthRequired())
	snapshots.Get("/", s.GetSnapshots)
	writes := snapshots.Group("", s.ServiceKeyRequired())
	writes.Post("/", s.CreateSnapshot)
	writes.Post("/refresh", s.RefreshSnapshot)
	return app
}

func authedRequest(method, target string, body []byte, token string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("x-api-key", "test_api_key")
	return req
}

func TestRefreshSnapshot_PersistsAndReturnsSnapshot(t *testing.T) {
	s, db, _ := newTestServer(t)
	user := createUser(t, db, "refresh-ok")
	app := snapshotApp(s)

	req := authedRequest(http.MethodPost, "/api/snapshots/refresh", nil, bearerToken(t, s, user))
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap models.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.NotZero(t, snap.ID)
	assert.Equal(t, user.ID, snap.UserID)
	assert.GreaterOrEqual(t, snap.AIScore, 0)
	assert.LessOrEqual(t, snap.AIScore, 100)
	assert.Equal(t, 65000.0, snap.Crypto.BTCPrice)

	var count int64
	db.Model(&models.Snapshot{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRefreshSnapshot_UpstreamFailureWritesNothing(t *testing.T) {
	s, db, st := newTestServer(t)
	user := createUser(t, db, "refresh-fail")
	st.failing["api.coingecko.com"] = true
	app := snapshotApp(s)

	req := authedRequest(http.MethodPost, "/api/snapshots/refresh", nil, bearerToken(t, s, user))
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.ErrCodeUpstream, body.Code)

	var count int64
	db.Model(&models.Snapshot{}).Count(&count)
	assert.Zero(t, count)
}

func TestRefreshSnapshot_OptionalSourceFailureStillSucceeds(t *testing.T) {
	s, db, st := newTestServer(t)
	user := createUser(t, db, "refresh-partial")
	st.failing["api.github.com"] = true
	st.failing["newsapi.org"] = true
	app := snapshotApp(s)

	req := authedRequest(http.MethodPost, "/api/snapshots/refresh", nil, bearerToken(t, s, user))
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap models.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Nil(t, snap.Github)
	assert.Equal(t, models.SentimentNeutral, snap.News.SentimentLabel)
}

func TestCreateSnapshot(t *testing.T) {
	s, db, _ := newTestServer(t)
	user := createUser(t, db, "create")
	app := snapshotApp(s)
	token := bearerToken(t, s, user)

	score := 64
	valid := models.SnapshotDraft{
		Timestamp: time.Now().UTC(),
		Crypto:    models.CryptoData{BTCPrice: 60000, BTCChange24: 1, Trend: models.TrendSideways},
		News:      models.NewsData{SentimentLabel: models.SentimentNeutral},
		Community: models.CommunityData{TagFilter: "javascript;reactjs", AvgScore: 2},
		Weather:   models.WeatherData{City: "London", Status: models.WeatherStable, Condition: "Clear"},
		AIScore:   &score,
	}
	validBody, _ := json.Marshal(valid)

	missingScore := valid
	missingScore.AIScore = nil
	missingScoreBody, _ := json.Marshal(missingScore)

	outOfRange := 120
	badScore := valid
	badScore.AIScore = &outOfRange
	badScoreBody, _ := json.Marshal(badScore)

	tests := []struct {
		name           string
		body           []byte
		expectedStatus int
		expectedCode   string
	}{
		{"valid draft", validBody, http.StatusCreated, ""},
		{"missing score", missingScoreBody, http.StatusBadRequest, models.ErrCodeValidation},
		{"out of range score", badScoreBody, http.StatusBadRequest, models.ErrCodeValidation},
		{"malformed json", []byte(`{"aiScore":`), http.StatusBadRequest, models.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/api/snapshots/", tt.body, token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedCode != "" {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedCode, body.Code)
			}
		})
	}

	// only the valid draft reached the store
	var count int64
	db.Model(&models.Snapshot{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetSnapshots_NewestFirstAndOwnerScoped(t *testing.T) {
	s, db, _ := newTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	app := snapshotApp(s)

	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	seedSnapshot(t, db, alice.ID, 40, base)
	seedSnapshot(t, db, alice.ID, 60, base.Add(time.Hour))
	seedSnapshot(t, db, bob.ID, 90, base)

	req := authedRequest(http.MethodGet, "/api/snapshots/", nil, bearerToken(t, s, alice))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Snapshots []models.Snapshot `json:"snapshots"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Equal(t, 2, body.Count)
	assert.Equal(t, 60, body.Snapshots[0].AIScore)
	assert.Equal(t, 40, body.Snapshots[1].AIScore)
	for _, snap := range body.Snapshots {
		assert.Equal(t, alice.ID, snap.UserID)
	}
}

func TestGetSnapshots_LimitParameter(t *testing.T) {
	s, db, _ := newTestServer(t)
	user := createUser(t, db, "limited")
	app := snapshotApp(s)
	token := bearerToken(t, s, user)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedSnapshot(t, db, user.ID, 50, base.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		name     string
		target   string
		expected int
	}{
		{"default limit", "/api/snapshots/", 20},
		{"explicit limit", "/api/snapshots/?limit=5", 5},
		{"invalid limit falls back", "/api/snapshots/?limit=abc", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodGet, tt.target, nil, token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Count int `json:"count"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expected, body.Count)
		})
	}
}

func seedSnapshot(t *testing.T, db *gorm.DB, userID uint, score int, ts time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Snapshot{
		UserID:    userID,
		Timestamp: ts,
		Crypto:    models.CryptoData{BTCPrice: 60000},
		News:      models.NewsData{SentimentLabel: models.SentimentNeutral},
		Community: models.CommunityData{TagFilter: "javascript;reactjs"},
		Weather:   models.WeatherData{City: "London"},
		AIScore:   score,
	}).Error)
}
