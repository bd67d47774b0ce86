// Package store is the single persistence boundary of the gateway. Every
// resolver reads and writes users, photos and tags through Store; fixtures
// are loaded through it as well (see Seed).
package store

import (
	"context"
	"errors"
	"time"

	"photoshare/pkg/models"
)

// ErrNotFound is returned by single-document lookups that match nothing.
var ErrNotFound = errors.New("document not found")

// PhotoFilter narrows AllPhotos. Zero value matches every photo.
type PhotoFilter struct {
	// After keeps photos created strictly after the instant.
	After *time.Time
	// PostedBy keeps photos posted by the given login.
	PostedBy string
}

// Matches reports whether p passes the filter.
func (f PhotoFilter) Matches(p models.Photo) bool {
	if f.After != nil && !p.Created.After(*f.After) {
		return false
	}
	if f.PostedBy != "" && p.PostedBy != f.PostedBy {
		return false
	}
	return true
}

// Store is the data-access handle shared by all resolvers.
type Store interface {
	EstimatedUserCount(ctx context.Context) (int64, error)
	EstimatedPhotoCount(ctx context.Context) (int64, error)

	AllUsers(ctx context.Context) ([]models.User, error)
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
	FindUserByToken(ctx context.Context, token string) (*models.User, error)
	InsertUsers(ctx context.Context, users []models.User) error
	UpsertUser(ctx context.Context, user models.User) (*models.User, error)

	AllPhotos(ctx context.Context, filter PhotoFilter) ([]models.Photo, error)
	FindPhotoByID(ctx context.Context, id string) (*models.Photo, error)
	InsertPhoto(ctx context.Context, photo models.Photo) (*models.Photo, error)

	InsertTags(ctx context.Context, tags []models.Tag) error
	TagsByPhoto(ctx context.Context, photoID string) ([]models.Tag, error)
	TagsByUser(ctx context.Context, login string) ([]models.Tag, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
