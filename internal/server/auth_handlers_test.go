package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devflow/internal/auth"
	"devflow/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*models.User, error) {
	args := m.Called(ctx, provider, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestGetMyProfile(t *testing.T) {
	s, db, _ := newTestServer(t)
	user := createUser(t, db, "profile")

	app := fiber.New()
	app.Get("/me", s.AuthRequired(), s.GetMyProfile)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerToken(t, s, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
}

func TestGetMyProfile_UserGone(t *testing.T) {
	s, _, _ := newTestServer(t)
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(7)).
		Return(nil, models.NewNotFoundError("User", uint(7)))
	s.userRepo = mockRepo

	app := fiber.New()
	app.Get("/me", s.AuthRequired(), s.GetMyProfile)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerToken(t, s, &models.User{ID: 7, Name: "Ghost"}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.google = auth.NewGoogleProvider("", "", "")

	app := fiber.New()
	app.Get("/auth/google", s.GoogleLogin)

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGoogleLogin_RedirectsWithState(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.google = auth.NewGoogleProvider("client-id", "client-secret", "http://localhost:4000/api/auth/google/callback")

	app := fiber.New()
	app.Get("/auth/google", s.GoogleLogin)

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "state=")

	// the state is pinned in a cookie for the callback to verify
	cookies := resp.Header.Values("Set-Cookie")
	found := false
	for _, c := range cookies {
		if strings.HasPrefix(c, stateCookie+"=") {
			found = true
		}
	}
	assert.True(t, found, "expected %s cookie to be set", stateCookie)
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.google = auth.NewGoogleProvider("client-id", "client-secret", "http://localhost:4000/api/auth/google/callback")

	app := fiber.New()
	app.Get("/auth/google/callback", s.GoogleCallback)

	tests := []struct {
		name   string
		target string
		cookie string
	}{
		{"no state at all", "/auth/google/callback?code=abc", ""},
		{"state without cookie", "/auth/google/callback?code=abc&state=xyz", ""},
		{"state does not match cookie", "/auth/google/callback?code=abc&state=xyz", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: stateCookie, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGoogleCallback_MissingCode(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.google = auth.NewGoogleProvider("client-id", "client-secret", "http://localhost:4000/api/auth/google/callback")

	app := fiber.New()
	app.Get("/auth/google/callback", s.GoogleCallback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "xyz"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateToken_Claims(t *testing.T) {
	s, _, _ := newTestServer(t)
	user := &models.User{ID: 42, Name: "Claim Check"}

	tokenString, err := s.generateToken(user)
	require.NoError(t, err)

	claims := parseClaims(t, s.config.JWTSecret, tokenString)
	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "Claim Check", claims["name"])
	assert.Equal(t, tokenIssuer, claims["iss"])
	assert.Equal(t, tokenAudience, claims["aud"])
	assert.NotEmpty(t, claims["jti"])
	assert.NotNil(t, claims["exp"])
}
