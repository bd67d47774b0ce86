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
	"photoshare/pkg/models"
)

func currentLogin(ctx context.Context) string {
	if u := middleware.CurrentUser(ctx); u != nil {
		return u.GithubLogin
	}
	return ""
}

// DoMe returns the session user, or nil for anonymous requests.
func (r *Resolver) DoMe(ctx context.Context) *models.User {
	return middleware.CurrentUser(ctx)
}

// DoTotalUsers returns the store's estimated user count.
func (r *Resolver) DoTotalUsers(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "totalUsers", start, err) }()

	n, err = r.Store.EstimatedUserCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// DoAllUsers lists every user and primes the request's user loader with them.
func (r *Resolver) DoAllUsers(ctx context.Context) (users []models.User, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "allUsers", start, err) }()

	users, err = r.Store.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if l := loaders.FromContext(ctx); l != nil {
		for _, u := range users {
			l.User.Prime(u)
		}
	}
	return users, nil
}

// DoAddFakeUsers fetches count generated identities and stores them.
func (r *Resolver) DoAddFakeUsers(ctx context.Context, count int) (users []models.User, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "addFakeUsers", start, err) }()

	if count < 1 {
		return nil, gwerrors.InvalidInput("count must be at least 1, got %d", count)
	}
	if r.Identities == nil {
		return nil, &gwerrors.UpstreamError{Service: "randomuser", Message: "random user service is not configured"}
	}

	users, err = r.Identities.Generate(ctx, count)
	if err != nil {
		return nil, err
	}
	if err := r.Store.InsertUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("store fake users: %w", err)
	}
	return users, nil
}

// DoFakeUserAuth signs in as an existing user by login, returning the stored token.
func (r *Resolver) DoFakeUserAuth(ctx context.Context, login string) (payload *models.AuthPayload, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "fakeUserAuth", start, err) }()

	u, err := r.Store.FindUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return nil, gwerrors.NotFound("Cannot find user with githubLogin %q", login)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", login, err)
	}
	return &models.AuthPayload{Token: u.GithubToken, User: *u}, nil
}

// DoGithubAuth exchanges an OAuth code, upserts the user with the latest
// profile and token, and returns the new session.
func (r *Resolver) DoGithubAuth(ctx context.Context, code string) (payload *models.AuthPayload, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "githubAuth", start, err) }()

	if r.GitHub == nil {
		return nil, &gwerrors.UpstreamError{Service: "github", Message: "github sign-in is not configured"}
	}

	latest, err := r.GitHub.Authorize(ctx, code)
	if err != nil {
		return nil, err
	}
	u, err := r.Store.UpsertUser(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("save github user: %w", err)
	}
	if r.Logger != nil {
		r.Logger.WithField("github_login", u.GithubLogin).Info("GitHub user signed in")
	}
	return &models.AuthPayload{Token: latest.GithubToken, User: *u}, nil
}

// PostedPhotos lists photos posted by u.
func (r *Resolver) PostedPhotos(ctx context.Context, u *models.User) ([]models.Photo, error) {
	photos, err := r.Store.AllPhotos(ctx, store.PhotoFilter{PostedBy: u.GithubLogin})
	if err != nil {
		return nil, fmt.Errorf("photos posted by %s: %w", u.GithubLogin, err)
	}
	return photos, nil
}

// InPhotos lists photos u is tagged in, in tag order. Tags pointing at
// missing photos are skipped.
func (r *Resolver) InPhotos(ctx context.Context, u *models.User) ([]models.Photo, error) {
	tags, err := r.Store.TagsByUser(ctx, u.GithubLogin)
	if err != nil {
		return nil, fmt.Errorf("tags for user %s: %w", u.GithubLogin, err)
	}

	photos := make([]models.Photo, 0, len(tags))
	for _, t := range tags {
		p, err := r.loadPhoto(ctx, t.PhotoID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			photos = append(photos, *p)
		}
	}
	return photos, nil
}

func (r *Resolver) loadUser(ctx context.Context, login string) (*models.User, error) {
	if l := loaders.FromContext(ctx); l != nil {
		return l.User.Load(ctx, login)
	}
	u, err := r.Store.FindUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return u, err
}
