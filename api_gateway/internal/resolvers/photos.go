package resolvers

import (
	"context"
	"errors"
	"fmt"
	"time"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/api_gateway/internal/loaders"
	"photoshare/api_gateway/internal/middleware"
	"photoshare/api_gateway/internal/store"
	"photoshare/pkg/logging"
	"photoshare/pkg/models"
)

// PostPhotoInput is the client-supplied part of a new photo. The poster and
// creation time are always taken from the session and the server clock.
type PostPhotoInput struct {
	Name        string
	Category    *models.PhotoCategory
	Description *string
}

// DoTotalPhotos returns the store's estimated photo count.
func (r *Resolver) DoTotalPhotos(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "totalPhotos", start, err) }()

	n, err = r.Store.EstimatedPhotoCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

// DoAllPhotos lists photos, keeping only those created strictly after
// `after` when it is set.
func (r *Resolver) DoAllPhotos(ctx context.Context, after *time.Time) (photos []models.Photo, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "allPhotos", start, err) }()

	photos, err = r.Store.AllPhotos(ctx, store.PhotoFilter{After: after})
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// DoPostPhoto stores a photo for the session user.
func (r *Resolver) DoPostPhoto(ctx context.Context, input PostPhotoInput) (photo *models.Photo, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "postPhoto", start, err) }()

	user, err := middleware.RequireUser(ctx, "only an authorized user can post a photo")
	if err != nil {
		return nil, err
	}

	category := models.DefaultCategory
	if input.Category != nil {
		category = *input.Category
	}
	if !category.Valid() {
		return nil, gwerrors.InvalidInput("unknown photo category %q", category)
	}

	photo, err = r.Store.InsertPhoto(ctx, models.Photo{
		Name:        input.Name,
		Description: input.Description,
		Category:    category,
		PostedBy:    user.GithubLogin,
		Created:     r.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	if r.Logger != nil {
		r.Logger.WithFields(logging.Fields{
			"photo_id":     photo.ResolvedID(),
			"github_login": user.GithubLogin,
		}).Info("Photo posted")
	}
	return photo, nil
}

// PostedBy resolves the poster of p. A poster that no longer exists yields nil.
func (r *Resolver) PostedBy(ctx context.Context, p *models.Photo) (*models.User, error) {
	if p.PostedBy == "" {
		return nil, nil
	}
	u, err := r.loadUser(ctx, p.PostedBy)
	if err != nil {
		return nil, fmt.Errorf("poster of photo %s: %w", p.ResolvedID(), err)
	}
	return u, nil
}

// TaggedUsers lists users tagged in p, in tag order. Tags pointing at missing
// users are skipped.
func (r *Resolver) TaggedUsers(ctx context.Context, p *models.Photo) ([]models.User, error) {
	tags, err := r.Store.TagsByPhoto(ctx, p.ResolvedID())
	if err != nil {
		return nil, fmt.Errorf("tags for photo %s: %w", p.ResolvedID(), err)
	}

	users := make([]models.User, 0, len(tags))
	for _, t := range tags {
		u, err := r.loadUser(ctx, t.UserID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *Resolver) loadPhoto(ctx context.Context, id string) (*models.Photo, error) {
	if l := loaders.FromContext(ctx); l != nil {
		return l.Photo.Load(ctx, id)
	}
	p, err := r.Store.FindPhotoByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return p, err
}
