package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/mentor-match/internal/apperror"
	"github.com/sakif/mentor-match/internal/imaging"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/repository"
)

// MaxBioLength bounds the free-text bio field.
const MaxBioLength = 2000

// ProfileService handles profile reads and updates, including the profile
// image pipeline, and the mentor directory listing.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		logger: logger,
	}
}

// ProfileUpdate carries the mutable profile fields. Name is required; the
// pointer fields distinguish "not provided, keep the current value" (nil)
// from "provided, set it" — mirroring a PUT body with optional keys.
// ImageBase64, when non-empty, is a base64-encoded JPEG or PNG upload.
type ProfileUpdate struct {
	Name        string
	Bio         *string
	Skills      []string
	ImageBase64 string
}

// UpdateProfile applies the update and returns the stored user.
//
// A bad image fails the whole update with ErrImageProcessing — the caller
// finds out instead of the upload vanishing while the rest of the profile
// quietly saves.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	name := strings.TrimSpace(update.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/profile: fetching user %s: %w", userID, err)
	}

	user.Name = name
	if update.Bio != nil {
		bio := strings.TrimSpace(*update.Bio)
		if len(bio) > MaxBioLength {
			return nil, apperror.ValidationFailed("bio",
				fmt.Sprintf("bio must be %d characters or fewer", MaxBioLength))
		}
		user.Bio = bio
	}
	if update.Skills != nil {
		cleaned := make([]string, 0, len(update.Skills))
		for _, skill := range update.Skills {
			if skill = strings.TrimSpace(skill); skill != "" {
				cleaned = append(cleaned, skill)
			}
		}
		user.Skills = strings.Join(cleaned, ",")
	}

	if update.ImageBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(update.ImageBase64)
		if err != nil {
			return nil, apperror.ImageProcessing("image is not valid base64")
		}
		transcoded, err := imaging.Transcode(raw)
		if err != nil {
			return nil, fmt.Errorf("service/profile: processing image for user %s: %w", userID, err)
		}
		user.ProfileImage = transcoded
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("service/profile: updating user %s: %w", userID, err)
	}

	s.logger.Info("profile updated",
		slog.String("userID", user.ID),
		slog.Bool("imageChanged", update.ImageBase64 != ""),
	)

	return user, nil
}

// GetUser returns the user for the given ID. Used by /api/me and by the
// image endpoint.
func (s *ProfileService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/profile: fetching user %s: %w", id, err)
	}
	return user, nil
}

// ListMentors returns the mentor directory. The skill filter is a
// substring match; ordering is by name, skills, or registration order.
func (s *ProfileService) ListMentors(ctx context.Context, skill, orderBy string) ([]model.User, error) {
	switch orderBy {
	case "", "name", "skill":
	default:
		return nil, apperror.ValidationFailed("order_by", "order_by must be \"name\" or \"skill\"")
	}

	mentors, err := s.users.ListMentors(ctx, repository.MentorFilter{
		Skill:   strings.TrimSpace(skill),
		OrderBy: orderBy,
	})
	if err != nil {
		return nil, fmt.Errorf("service/profile: listing mentors: %w", err)
	}

	return mentors, nil
}
