package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocmafia/server/internal/domain/entity"
)

func newTestProfiles(t *testing.T) (*ProfileService, *fakeUserRepo, *fakeCharacterRepo) {
	t.Helper()
	users := newFakeUserRepo()
	characters := newFakeCharacterRepo()
	svc := NewProfileService(users, characters, nil, "", nil, nil)
	return svc, users, characters
}

func seedUser(t *testing.T, users *fakeUserRepo, username string) *entity.User {
	t.Helper()
	u := &entity.User{Username: username, PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestGetProfileViewerFlags(t *testing.T) {
	svc, users, characters := newTestProfiles(t)
	owner := seedUser(t, users, "Cassius")
	viewer := seedUser(t, users, "Brutus")
	characters.byID["c1"] = &entity.Character{ID: "c1", OwnerID: owner.ID, Name: "Lucia"}

	view, err := svc.GetProfile(context.Background(), owner.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, view.Owner)
	assert.Len(t, view.Characters, 1)

	view, err = svc.GetProfile(context.Background(), viewer.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, view.Owner)
	assert.False(t, view.Following)

	require.NoError(t, svc.Follow(context.Background(), viewer.ID, owner.ID, true))
	view, err = svc.GetProfile(context.Background(), viewer.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, view.Following)

	_, err = svc.GetProfile(context.Background(), "", "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _ := newTestProfiles(t)
	u := seedUser(t, users, "Cassius")

	got, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{
		Tagline:          "ave",
		AvatarType:       entity.AvatarColor,
		AvatarColor:      "crimson",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "Brutus",
	})
	require.NoError(t, err)
	assert.Equal(t, "ave", got.Tagline)
	assert.Equal(t, "crimson", got.Avatar.Color)
	assert.True(t, got.HasSecurityAnswer())

	// Clearing both sides of the pair is allowed.
	got, err = svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{})
	require.NoError(t, err)
	assert.False(t, got.HasSecurityAnswer())
}

func TestUpdateProfileValidation(t *testing.T) {
	svc, users, _ := newTestProfiles(t)
	u := seedUser(t, users, "Cassius")

	_, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{
		SecurityQuestion: "First pet?",
	})
	assert.ErrorIs(t, err, ErrSecurityPairIncomplete)

	_, err = svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{
		Tagline: strings.Repeat("t", 31),
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "tagline")
}

func TestFollow(t *testing.T) {
	svc, users, _ := newTestProfiles(t)
	a := seedUser(t, users, "Cassius")
	b := seedUser(t, users, "Brutus")

	require.NoError(t, svc.Follow(context.Background(), a.ID, b.ID, true))
	// Double follow stays a single entry.
	require.NoError(t, svc.Follow(context.Background(), a.ID, b.ID, true))
	stored, _ := users.GetByID(context.Background(), a.ID)
	assert.Equal(t, []string{b.ID}, stored.FollowingIDs)

	require.NoError(t, svc.Follow(context.Background(), a.ID, b.ID, false))
	stored, _ = users.GetByID(context.Background(), a.ID)
	assert.Empty(t, stored.FollowingIDs)

	_, ok := AsFieldErrors(svc.Follow(context.Background(), a.ID, a.ID, true))
	assert.True(t, ok, "self-follow must be a field error")

	err := svc.Follow(context.Background(), a.ID, "missing", true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
