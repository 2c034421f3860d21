package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
	"github.com/ocmafia/server/pkg/helpers"
)

const maxTaglineLen = 30

// ProfileService reads and edits user profiles: tagline, avatar, the
// security question/answer pair, and follow relationships.
type ProfileService struct {
	Users      repository.UserRepository
	Characters repository.CharacterRepository
	GCS        *storage.Client
	GCSBucket  string
	Search     *SearchIndex
	Logger     *logrus.Logger
}

func NewProfileService(users repository.UserRepository, characters repository.CharacterRepository,
	gcs *storage.Client, gcsBucket string, search *SearchIndex, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		Users:      users,
		Characters: characters,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		Search:     search,
		Logger:     logger,
	}
}

// ProfileView is the public shape of a profile plus viewer-relative flags.
type ProfileView struct {
	User       *entity.User
	Characters []*entity.Character
	Owner      bool
	Following  bool
}

// GetProfile loads a profile; viewerID may be empty for anonymous viewers.
func (s *ProfileService) GetProfile(ctx context.Context, viewerID, profileID string) (*ProfileView, error) {
	u, err := s.Users.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	chars, err := s.Characters.ListByOwner(ctx, profileID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{User: u, Characters: chars, Owner: viewerID == profileID}
	if viewerID != "" && !view.Owner {
		viewer, err := s.Users.GetByID(ctx, viewerID)
		if err == nil {
			view.Following = viewer.IsFollowing(profileID)
		}
	}
	return view, nil
}

type UpdateProfileInput struct {
	Tagline          string
	AvatarType       entity.AvatarType
	AvatarColor      string
	AvatarURL        string
	SecurityQuestion string
	SecurityAnswer   string
}

// UpdateProfile applies a profile edit. The security question/answer keeps
// the paired-or-neither invariant; lengths mirror the signup limits.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	if (in.SecurityQuestion == "") != (in.SecurityAnswer == "") {
		return nil, ErrSecurityPairIncomplete
	}

	fieldErrs := FieldErrors{}
	if len(in.Tagline) > maxTaglineLen {
		fieldErrs["tagline"] = "Tagline cannot be longer than 30 characters"
	}
	if len(in.SecurityQuestion) > maxSecurityQuestionLen {
		fieldErrs["securityQuestion"] = "Security question cannot be longer than 100 characters"
	}
	if len(in.SecurityAnswer) > maxSecurityAnswerLen {
		fieldErrs["securityAnswer"] = "Security answer cannot be longer than 25 characters"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u.Tagline = in.Tagline
	if in.AvatarType != "" {
		u.Avatar.Type = in.AvatarType
	}
	if in.AvatarColor != "" {
		u.Avatar.Color = in.AvatarColor
	}
	if in.AvatarURL != "" {
		u.Avatar.URL = in.AvatarURL
	}
	u.SecurityQuestion = in.SecurityQuestion
	u.SecurityAnswer = in.SecurityAnswer

	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.Search.Enabled() {
		s.Search.IndexUser(ctx, u)
	}
	return u, nil
}

// Follow updates the viewer's following list. Following yourself is
// rejected; double-follow and double-unfollow are no-ops.
func (s *ProfileService) Follow(ctx context.Context, userID, targetID string, follow bool) error {
	if userID == targetID {
		return FieldErrors{"action": "You cannot follow yourself"}
	}
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if follow {
		return s.Users.Follow(ctx, userID, targetID)
	}
	return s.Users.Unfollow(ctx, userID, targetID)
}

// UploadAvatar stores an avatar image in GCS and switches the profile to it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("avatar storage not configured")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	u.Avatar.Type = entity.AvatarImage
	u.Avatar.URL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Search.Enabled() {
		s.Search.IndexUser(ctx, u)
	}
	return url, nil
}
