package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// ProfilesHandler exposes role records.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profileService}
}

// ListProfiles GET /profiles.
func (h *ProfilesHandler) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListProfiles(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.NewProfileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateProfile POST /profiles.
func (h *ProfilesHandler) CreateProfile(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.profiles.CreateProfile(c.UserContext(), caller, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// GetProfile GET /profiles/:id.
func (h *ProfilesHandler) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("profile", nil)
	}
	profile, err := h.profiles.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// DeleteProfile DELETE /profiles/:id.
func (h *ProfilesHandler) DeleteProfile(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	if err := h.profiles.DeleteProfile(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
