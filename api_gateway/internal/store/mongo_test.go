package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"photoshare/pkg/database"
	"photoshare/pkg/models"
)

// TestMongoStoreContract runs against a live server when TEST_MONGO_URI is set.
func TestMongoStoreContract(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	logger, _ := logrustest.NewNullLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := database.DefaultConfig()
	cfg.URI = uri
	cfg.Database = "photoshare_test_" + uuid.NewString()[:8]
	db, err := database.Connect(ctx, cfg, logger)
	require.NoError(t, err)

	s := NewMongoStore(db)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = s.Close(context.Background())
	})

	require.NoError(t, s.Ping(ctx))
	runStoreContract(t, s)
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, s, DefaultFixtures()))

	users, err := s.AllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	u, err := s.FindUserByLogin(ctx, "sSchmidt")
	require.NoError(t, err)
	require.Equal(t, "Scot Schmidt", u.Name)

	_, err = s.FindUserByLogin(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)

	photo, err := s.InsertPhoto(ctx, models.Photo{
		Name:     "posted",
		Category: models.CategoryPortrait,
		PostedBy: "mHattrup",
		Created:  time.Now().UTC().Truncate(time.Millisecond),
	})
	require.NoError(t, err)
	require.NotEmpty(t, photo.ResolvedID())

	photos, err := s.AllPhotos(ctx, PhotoFilter{})
	require.NoError(t, err)
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ResolvedID())
	}
	require.Equal(t, []string{"1", "2", "3", photo.ResolvedID()}, ids)

	found, err := s.FindPhotoByID(ctx, photo.ResolvedID())
	require.NoError(t, err)
	require.Equal(t, "posted", found.Name)
	require.Equal(t, "mHattrup", found.PostedBy)

	tags, err := s.TagsByPhoto(ctx, "2")
	require.NoError(t, err)
	require.Len(t, tags, 3)
	require.Equal(t, "sSchmidt", tags[0].UserID)
	require.Equal(t, "gPlake", tags[2].UserID)

	_, err = s.UpsertUser(ctx, models.User{GithubLogin: "sSchmidt", Name: "Scot", GithubToken: "abc"})
	require.NoError(t, err)
	byToken, err := s.FindUserByToken(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "sSchmidt", byToken.GithubLogin)

	n, err := s.EstimatedUserCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}
