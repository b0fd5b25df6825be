package server

import (
	"log/slog"

	"waypost/internal/middleware"
	"waypost/internal/models"
	"waypost/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/v1/auth/register.
// Email is the identity key; a taken email is a conflict. Username defaults to
// the email local-part when omitted.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if req.Username == "" {
		req.Username = validation.UsernameFromEmail(req.Email)
	}

	fields := validation.Fields{}
	if err := validation.ValidateEmail(req.Email); err != nil {
		fields.Add("email", err.Error())
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		fields.Add("username", err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		fields.Add("password", err.Error())
	}
	if !fields.Empty() {
		return models.RespondWithAppError(c, models.NewFieldValidationError(fields))
	}

	existing, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if existing != nil {
		return models.RespondWithAppError(c, models.NewConflictError("Email is already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	middleware.Logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

// Login handles POST /api/v1/auth/login.
// Unknown email and wrong password produce the same response so the endpoint
// cannot be used to probe which addresses exist.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	req.Email = validation.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		return models.RespondWithAppError(c,
			models.NewUnauthenticatedError("Invalid email or password"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithAppError(c,
			models.NewUnauthenticatedError("Invalid email or password"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	return c.JSON(authResponse{Token: token, User: user})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
// Always answers 200; whether the address exists is never revealed.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	email := validation.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(c.UserContext(), email)
	if err == nil && user != nil {
		token, terr := s.generateResetToken(user)
		if terr == nil {
			if merr := s.mailer.SendPasswordReset(user.Email, token); merr != nil {
				middleware.Logger.Error("reset mail delivery failed",
					slog.Uint64("user_id", uint64(user.ID)),
					slog.String("error", merr.Error()))
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	claims, err := s.parseResetToken(req.Token)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return models.RespondWithAppError(c,
			models.NewFieldValidationError(validation.Fields{"newPassword": err.Error()}))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	if err := s.userRepo.UpdatePassword(c.UserContext(), claims.UserID, string(hash)); err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.Info("password reset", slog.Uint64("user_id", uint64(claims.UserID)))
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}
