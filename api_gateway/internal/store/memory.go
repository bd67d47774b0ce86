package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"photoshare/pkg/models"
)

// MemoryStore is an in-process Store. Counts are exact and slices keep
// insertion order. Used by tests and by the gateway when no database is
// configured in development.
type MemoryStore struct {
	mu     sync.RWMutex
	users  []models.User
	photos []models.Photo
	tags   []models.Tag
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) EstimatedUserCount(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) EstimatedPhotoCount(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.photos)), nil
}

func (s *MemoryStore) AllUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.users...), nil
}

func (s *MemoryStore) FindUserByLogin(_ context.Context, login string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.GithubLogin == login {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByToken(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.GithubToken == token {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertUsers(_ context.Context, users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, users...)
	return nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, user models.User) (*models.User, error) {
	if user.GithubLogin == "" {
		return nil, fmt.Errorf("upsert user: empty login")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].GithubLogin == user.GithubLogin {
			s.users[i] = user
			return &user, nil
		}
	}
	s.users = append(s.users, user)
	return &user, nil
}

func (s *MemoryStore) AllPhotos(_ context.Context, filter PhotoFilter) ([]models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Photo{}
	for _, p := range s.photos {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindPhotoByID(_ context.Context, id string) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.photos {
		if p.ResolvedID() == id || (!p.ObjectID.IsZero() && p.ObjectID.Hex() == id) {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertPhoto(_ context.Context, photo models.Photo) (*models.Photo, error) {
	if photo.ObjectID.IsZero() {
		photo.ObjectID = bson.NewObjectID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, photo)
	return &photo, nil
}

func (s *MemoryStore) InsertTags(_ context.Context, tags []models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tags...)
	return nil
}

func (s *MemoryStore) TagsByPhoto(_ context.Context, photoID string) ([]models.Tag, error) {
	return s.filterTags(func(t models.Tag) bool { return t.PhotoID == photoID }), nil
}

func (s *MemoryStore) TagsByUser(_ context.Context, login string) ([]models.Tag, error) {
	return s.filterTags(func(t models.Tag) bool { return t.UserID == login }), nil
}

func (s *MemoryStore) filterTags(keep func(models.Tag) bool) []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Tag
	for _, t := range s.tags {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }
