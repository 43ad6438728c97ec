package service

import (
	"context"
	"errors"

	"github.com/heartlinkapp/heartlink/internal/apperr"
	"github.com/heartlinkapp/heartlink/internal/media"
	"github.com/heartlinkapp/heartlink/internal/models"
	"github.com/heartlinkapp/heartlink/internal/repository"
)

// ProfileUpdate carries a partial update: zero-valued fields keep the stored
// value, non-empty ones overwrite it.
type ProfileUpdate struct {
	Name         string
	Age          int
	Gender       string
	InterestedIn string
	Bio          string
	ImageURL     string
}

type ProfileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("find user", err)
	}

	p := models.Profile{}
	if u.Profile != nil {
		p = *u.Profile
	}
	if upd.Name != "" {
		p.Name = upd.Name
	}
	if upd.Age != 0 {
		p.Age = upd.Age
	}
	if upd.Gender != "" {
		p.Gender = upd.Gender
	}
	if upd.InterestedIn != "" {
		p.InterestedIn = upd.InterestedIn
	}
	if upd.Bio != "" {
		p.Bio = upd.Bio
	}
	if upd.ImageURL != "" {
		p.ImageURL = upd.ImageURL
	}

	if err := s.users.UpdateProfile(ctx, userID, &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("update profile", err)
	}
	return &p, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (bool, *models.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil, apperr.NotFound("User not found")
		}
		return false, nil, apperr.Internal("find user", err)
	}
	return u.HasProfile(), u.Profile, nil
}

// ListCandidates returns every other completed profile. The caller must have
// completed onboarding first.
func (s *ProfileService) ListCandidates(ctx context.Context, userID string) ([]models.ProfileSummary, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("find user", err)
	}
	if !u.HasProfile() {
		return nil, apperr.Precondition("Please complete your profile first")
	}

	users, err := s.users.ListWithProfiles(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list profiles", err)
	}

	out := make([]models.ProfileSummary, 0, len(users))
	for _, c := range users {
		out = append(out, SummaryOf(c))
	}
	return out, nil
}

// SummaryOf projects a user's profile for candidate listings, substituting the
// default avatar when no image was uploaded.
func SummaryOf(u *models.User) models.ProfileSummary {
	s := models.ProfileSummary{
		ID:       u.ID.Hex(),
		ImageURL: media.DefaultAvatarPath,
	}
	if u.Profile != nil {
		s.Name = u.Profile.Name
		s.Age = u.Profile.Age
		s.Gender = u.Profile.Gender
		s.InterestedIn = u.Profile.InterestedIn
		s.Bio = u.Profile.Bio
		if u.Profile.ImageURL != "" {
			s.ImageURL = u.Profile.ImageURL
		}
	}
	return s
}
