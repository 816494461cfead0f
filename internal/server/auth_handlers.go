package server

import (
	"fmt"
	"time"

	"devflow/internal/middleware"
	"devflow/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateCookie = "oauth_state"

// GoogleLogin starts the OAuth handshake by redirecting the browser to
// Google's consent screen. A random state value is pinned in a short-lived
// cookie so the callback can reject forged redirects.
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if !s.google.Configured() {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Google sign-in is not configured"))
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.Env == "production",
	})

	return c.Redirect(s.google.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback completes the handshake: it validates the state, swaps the
// authorization code for the Google profile, upserts the user record and
// hands the browser back to the frontend with a signed session token.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")

	expected := c.Cookies(stateCookie)
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	if state == "" || expected == "" || state != expected {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid OAuth state"))
	}
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	profile, err := s.google.Exchange(c.Context(), code)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "oauth exchange failed", "error", err)
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Could not verify Google account"))
	}

	user, err := s.userRepo.Upsert(c.UserContext(), &models.User{
		Provider:   "google",
		ProviderID: profile.Sub,
		Name:       profile.Name,
		Email:      profile.Email,
		AvatarURL:  profile.Picture,
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "user upsert failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user signed in",
		"user_id", user.ID, "provider", "google")

	return c.Redirect(fmt.Sprintf("%s/auth/callback?token=%s",
		s.config.FrontendOrigin, token), fiber.StatusTemporaryRedirect)
}

// GetMyProfile returns the authenticated user's profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := s.currentUserID(c)

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		if models.IsCode(err, models.ErrCodeNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// generateToken mints the session JWT the frontend presents on every call.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"name": user.Name,
		"iss":  tokenIssuer,
		"aud":  tokenAudience,
		"exp":  now.Add(2 * time.Hour).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
