// Package service implements the business rules between HTTP handlers and
// repositories: validation, ownership checks, and upload handling.
package service

import (
	"context"
	"errors"

	"waypost/internal/models"
	"waypost/internal/observability"
	"waypost/internal/repository"
	"waypost/internal/upload"
	"waypost/internal/validation"

	"gorm.io/gorm"
)

// PostService enforces the ownership rules around post mutation: anyone may
// read, only authenticated users may create, and only the author may update,
// delete, or be denied a like on their own post.
type PostService struct {
	postRepo repository.PostRepository
	images   *upload.Store
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Location string
	Tags     []string
	Images   [][]byte
}

// UpdatePostInput carries partial updates; nil pointers leave the field
// untouched. Author and identifier are not represented: they are immutable.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    *string
	Content  *string
	Location *string
	Tags     []string
	TagsSet  bool
}

func NewPostService(postRepo repository.PostRepository, images *upload.Store) *PostService {
	return &PostService{postRepo: postRepo, images: images}
}

func (s *PostService) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, limit, offset, currentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// Create persists a new post. The author is always the caller; any author
// value supplied by the client never reaches this layer.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	fields := validation.Fields{}
	if err := validation.ValidateTitle(in.Title); err != nil {
		fields.Add("title", err.Error())
	}
	if err := validation.ValidateContent(in.Content); err != nil {
		fields.Add("content", err.Error())
	}
	tags := validation.NormalizeTags(in.Tags)
	if err := validation.ValidateTags(tags); err != nil {
		fields.Add("tags", err.Error())
	}
	if !fields.Empty() {
		return nil, models.NewFieldValidationError(fields)
	}

	paths, err := s.images.SaveImages(in.Images)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Location: in.Location,
		Tags:     tags,
		Images:   paths,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.images.Remove(paths)
		return nil, models.NewInternalError(err)
	}

	return s.Get(ctx, post.ID, in.UserID)
}

// Update mutates title, content, location, and tags of the caller's own post.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.Get(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	fields := validation.Fields{}
	if in.Title != nil {
		if err := validation.ValidateTitle(*in.Title); err != nil {
			fields.Add("title", err.Error())
		} else {
			post.Title = *in.Title
		}
	}
	if in.Content != nil {
		if err := validation.ValidateContent(*in.Content); err != nil {
			fields.Add("content", err.Error())
		} else {
			post.Content = *in.Content
		}
	}
	if in.Location != nil {
		post.Location = *in.Location
	}
	if in.TagsSet {
		tags := validation.NormalizeTags(in.Tags)
		if err := validation.ValidateTags(tags); err != nil {
			fields.Add("tags", err.Error())
		} else {
			post.Tags = tags
		}
	}
	if !fields.Empty() {
		return nil, models.NewFieldValidationError(fields)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.Get(ctx, in.PostID, in.UserID)
}

// Delete removes the caller's own post and schedules best-effort cleanup of
// its image files. Cleanup never blocks or fails the delete response.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.Get(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return models.NewInternalError(err)
	}

	s.images.Remove(post.Images)
	return nil
}

// ToggleLike flips the caller's membership in the post's like-set. The author
// cannot like their own post; everyone else alternates between liked and
// not-liked on each call.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.Get(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID == userID {
		return nil, models.NewSelfLikeForbiddenError()
	}

	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if liked {
		observability.LikeToggles.WithLabelValues("like").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("unlike").Inc()
	}

	return s.Get(ctx, postID, userID)
}
