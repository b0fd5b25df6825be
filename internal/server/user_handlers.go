package server

import (
	"io"

	"waypost/internal/models"
	"waypost/internal/service"
	"waypost/internal/upload"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// GetMyProfile handles GET /api/v1/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /api/v1/users/me. Absent fields stay as they are.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   currentUserID(c),
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword handles PATCH /api/v1/users/me/password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	err := s.userService.ChangePassword(c.UserContext(), currentUserID(c),
		req.CurrentPassword, req.NewPassword)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

// UploadAvatar handles POST /api/v1/users/me/avatar. The uploaded image
// replaces any previous avatar in full.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Expected an avatar file field"))
	}
	if fh.Size > upload.MaxImageBytes {
		return models.RespondWithAppError(c,
			models.NewValidationError("Avatar exceeds the maximum allowed size"))
	}

	f, err := fh.Open()
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	content, err := io.ReadAll(io.LimitReader(f, upload.MaxImageBytes+1))
	f.Close()
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	if int64(len(content)) > upload.MaxImageBytes {
		return models.RespondWithAppError(c,
			models.NewValidationError("Avatar exceeds the maximum allowed size"))
	}

	if err := s.userService.SetAvatar(c.UserContext(), currentUserID(c), content); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAvatar handles DELETE /api/v1/users/me/avatar
func (s *Server) DeleteAvatar(c *fiber.Ctx) error {
	if err := s.userService.DeleteAvatar(c.UserContext(), currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserAvatar handles GET /api/v1/users/:id/avatar. Public; serves the raw
// bytes with the stored MIME type, 404 when the user has no avatar.
func (s *Server) GetUserAvatar(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	blob, mime, err := s.userService.GetAvatar(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(blob)
}
