package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"photoshare/pkg/models"
)

func seeded(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	require.NoError(t, Seed(context.Background(), s, DefaultFixtures()))
	return s
}

func TestSeedCounts(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	users, err := s.EstimatedUserCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, users)

	photos, err := s.EstimatedPhotoCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, photos)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ran, err := SeedIfEmpty(ctx, s, DefaultFixtures())
	require.NoError(t, err)
	require.True(t, ran)

	ran, err = SeedIfEmpty(ctx, s, DefaultFixtures())
	require.NoError(t, err)
	require.False(t, ran)

	n, _ := s.EstimatedUserCount(ctx)
	require.EqualValues(t, 3, n)
}

func TestTagsKeepInsertionOrder(t *testing.T) {
	s := seeded(t)
	tags, err := s.TagsByPhoto(context.Background(), "2")
	require.NoError(t, err)

	var logins []string
	for _, tag := range tags {
		logins = append(logins, tag.UserID)
	}
	require.Equal(t, []string{"sSchmidt", "mHattrup", "gPlake"}, logins)

	byUser, err := s.TagsByUser(context.Background(), "gPlake")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	require.Equal(t, "1", byUser[0].PhotoID)
	require.Equal(t, "2", byUser[1].PhotoID)
}

func TestAllPhotosFilter(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	after := time.Date(1985, time.January, 2, 0, 0, 0, 0, time.UTC)
	photos, err := s.AllPhotos(ctx, PhotoFilter{After: &after})
	require.NoError(t, err)
	require.Len(t, photos, 1, "after is strict")
	require.Equal(t, "3", photos[0].ID)

	photos, err = s.AllPhotos(ctx, PhotoFilter{PostedBy: "sSchmidt"})
	require.NoError(t, err)
	require.Len(t, photos, 2)
}

func TestFindPhotoByID(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	p, err := s.FindPhotoByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "Dropping the Heart Chute", p.Name)

	inserted, err := s.InsertPhoto(ctx, models.Photo{Name: "new", Category: models.CategoryGraphic, PostedBy: "gPlake"})
	require.NoError(t, err)
	require.False(t, inserted.ObjectID.IsZero())

	found, err := s.FindPhotoByID(ctx, inserted.ObjectID.Hex())
	require.NoError(t, err)
	require.Equal(t, "new", found.Name)

	_, err = s.FindPhotoByID(ctx, "missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestUpsertUser(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, models.User{GithubLogin: "gPlake", Name: "Glen", GithubToken: "tok"})
	require.NoError(t, err)
	_, err = s.UpsertUser(ctx, models.User{GithubLogin: "newbie", GithubToken: "tok2"})
	require.NoError(t, err)

	n, _ := s.EstimatedUserCount(ctx)
	require.EqualValues(t, 4, n)

	u, err := s.FindUserByToken(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "Glen", u.Name)

	_, err = s.FindUserByToken(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	s := seeded(t)
	users, _ := s.AllUsers(context.Background())
	users[0].Name = "mutated"

	u, err := s.FindUserByLogin(context.Background(), users[0].GithubLogin)
	require.NoError(t, err)
	require.NotEqual(t, "mutated", u.Name)
}
