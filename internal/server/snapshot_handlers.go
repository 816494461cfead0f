package server

import (
	"devflow/internal/middleware"
	"devflow/internal/models"
	"devflow/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// RefreshSnapshot runs the full pipeline: fetch all sources, assemble and
// score a draft, persist it to the caller's history and return the stored
// snapshot. A failed crypto or community fetch aborts with 502 and nothing
// is written.
func (s *Server) RefreshSnapshot(c *fiber.Ctx) error {
	userID := s.currentUserID(c)

	ctx := c.UserContext()
	snapshot, err := s.snapshotService.Refresh(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.ErrCodeUpstream) {
			return models.RespondWithError(c, fiber.StatusBadGateway, err)
		}
		middleware.Logger.ErrorContext(ctx, "snapshot refresh failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(snapshot)
}

// CreateSnapshot persists a pre-assembled snapshot draft from the request
// body. The score must already be computed and in range; drafts failing
// validation are rejected without touching history.
func (s *Server) CreateSnapshot(c *fiber.Ctx) error {
	userID := s.currentUserID(c)

	var draft models.SnapshotDraft
	if err := c.BodyParser(&draft); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	id, err := s.snapshotService.SaveDraft(c.UserContext(), userID, &draft)
	if err != nil {
		if models.IsCode(err, models.ErrCodeValidation) {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		middleware.Logger.ErrorContext(c.UserContext(), "snapshot save failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"message": "Snapshot saved",
	})
}

// GetSnapshots returns the caller's snapshot history, newest first. The
// optional limit query parameter caps the page size; invalid or missing
// values fall back to the default.
func (s *Server) GetSnapshots(c *fiber.Ctx) error {
	userID := s.currentUserID(c)

	limit := c.QueryInt("limit", repository.DefaultHistoryLimit)

	snapshots, err := s.snapshotService.History(c.UserContext(), userID, limit)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "snapshot history failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}
