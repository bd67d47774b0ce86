package loaders

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"photoshare/api_gateway/internal/store"
	"photoshare/pkg/ctxkeys"
	"photoshare/pkg/models"
)

// Loaders bundles per-request loaders.
type Loaders struct {
	User  *UserLoader
	Photo *PhotoLoader
}

func New(s store.Store) *Loaders {
	return &Loaders{
		User:  NewUserLoader(s),
		Photo: NewPhotoLoader(s),
	}
}

// WithLoaders stores a fresh set of loaders in ctx.
func WithLoaders(ctx context.Context, s store.Store) context.Context {
	return context.WithValue(ctx, ctxkeys.KeyLoaders, New(s))
}

// FromContext returns the request's loaders, or nil outside a request.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxkeys.KeyLoaders).(*Loaders)
	return l
}

// keyLoader caches one value per key for the life of a request. Concurrent
// loads of the same key share a single store call, and misses are cached as
// nil so a dangling reference is only looked up once.
type keyLoader[T any] struct {
	fetch func(ctx context.Context, key string) (*T, error)
	mu    sync.Mutex
	cache map[string]*T
	sf    singleflight.Group
}

func newKeyLoader[T any](fetch func(ctx context.Context, key string) (*T, error)) keyLoader[T] {
	return keyLoader[T]{fetch: fetch, cache: make(map[string]*T)}
}

func (l *keyLoader[T]) load(ctx context.Context, key string) (*T, error) {
	l.mu.Lock()
	if v, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	v, err, _ := l.sf.Do(key, func() (interface{}, error) {
		item, err := l.fetch(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			item, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = item
		l.mu.Unlock()
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (l *keyLoader[T]) prime(key string, v *T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[key]; !ok {
		l.cache[key] = v
	}
}

// UserLoader loads users by login.
type UserLoader struct {
	keyLoader[models.User]
}

func NewUserLoader(s store.Store) *UserLoader {
	return &UserLoader{keyLoader: newKeyLoader(s.FindUserByLogin)}
}

// Load returns (nil, nil) when no user has the login.
func (l *UserLoader) Load(ctx context.Context, login string) (*models.User, error) {
	return l.load(ctx, login)
}

// Prime seeds the cache with an already loaded user.
func (l *UserLoader) Prime(u models.User) {
	l.prime(u.GithubLogin, &u)
}

// PhotoLoader loads photos by resolved id.
type PhotoLoader struct {
	keyLoader[models.Photo]
}

func NewPhotoLoader(s store.Store) *PhotoLoader {
	return &PhotoLoader{keyLoader: newKeyLoader(s.FindPhotoByID)}
}

// Load returns (nil, nil) when no photo has the id.
func (l *PhotoLoader) Load(ctx context.Context, id string) (*models.Photo, error) {
	return l.load(ctx, id)
}
