package service

import (
	"context"

	"waypost/internal/models"
	"waypost/internal/observability"
	"waypost/internal/repository"
	"waypost/internal/upload"
	"waypost/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile reads/updates, password changes, and the
// in-record avatar lifecycle.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries partial profile updates; nil pointers leave the
// field untouched.
type UpdateProfileInput struct {
	UserID   uint
	Username *string
	Bio      *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	fields := validation.Fields{}
	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			fields.Add("username", err.Error())
		} else {
			user.Username = *in.Username
		}
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			fields.Add("bio", err.Error())
		} else {
			user.Bio = *in.Bio
		}
	}
	if !fields.Empty() {
		return nil, models.NewFieldValidationError(fields)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return models.NewUnauthenticatedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewFieldValidationError(validation.Fields{"newPassword": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// SetAvatar validates the attachment and replaces the stored avatar wholly.
// Blob, MIME type, and flag change in a single store write.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, content []byte) error {
	mime, err := upload.ValidateImage(content)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetAvatar(ctx, userID, content, mime); err != nil {
		return err
	}
	observability.Uploads.WithLabelValues("avatar").Inc()
	return nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	return s.userRepo.ClearAvatar(ctx, userID)
}

func (s *UserService) GetAvatar(ctx context.Context, userID uint) ([]byte, string, error) {
	return s.userRepo.GetAvatar(ctx, userID)
}
