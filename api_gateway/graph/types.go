package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/pkg/models"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *Resolver) user(u *models.User) *UserResolver {
	if u == nil {
		return nil
	}
	return &UserResolver{root: r, user: *u}
}

func (r *Resolver) users(users []models.User) []*UserResolver {
	out := make([]*UserResolver, len(users))
	for i := range users {
		out[i] = &UserResolver{root: r, user: users[i]}
	}
	return out
}

func (r *Resolver) photo(p models.Photo) *PhotoResolver {
	return &PhotoResolver{root: r, photo: p}
}

func (r *Resolver) photos(photos []models.Photo) []*PhotoResolver {
	out := make([]*PhotoResolver, len(photos))
	for i := range photos {
		out[i] = r.photo(photos[i])
	}
	return out
}

// UserResolver resolves User fields. The token is never exposed.
type UserResolver struct {
	root *Resolver
	user models.User
}

func (u *UserResolver) GithubLogin() graphql.ID { return graphql.ID(u.user.GithubLogin) }
func (u *UserResolver) Name() *string { return optional(u.user.Name) }
func (u *UserResolver) Avatar() *string { return optional(u.user.Avatar) }

func (u *UserResolver) PostedPhotos(ctx context.Context) ([]*PhotoResolver, error) {
	photos, err := u.root.Resolver.PostedPhotos(ctx, &u.user)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return u.root.photos(photos), nil
}

func (u *UserResolver) InPhotos(ctx context.Context) ([]*PhotoResolver, error) {
	photos, err := u.root.Resolver.InPhotos(ctx, &u.user)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return u.root.photos(photos), nil
}

// PhotoResolver resolves Photo fields.
type PhotoResolver struct {
	root  *Resolver
	photo models.Photo
}

func (p *PhotoResolver) ID() graphql.ID { return graphql.ID(p.photo.ResolvedID()) }
func (p *PhotoResolver) URL() string { return p.photo.URL() }
func (p *PhotoResolver) Name() string { return p.photo.Name }
func (p *PhotoResolver) Description() *string { return p.photo.Description }
func (p *PhotoResolver) Category() string { return string(p.photo.Category) }
func (p *PhotoResolver) Created() DateTime { return NewDateTime(p.photo.Created) }

func (p *PhotoResolver) PostedBy(ctx context.Context) (*UserResolver, error) {
	u, err := p.root.Resolver.PostedBy(ctx, &p.photo)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return p.root.user(u), nil
}

func (p *PhotoResolver) TaggedUsers(ctx context.Context) ([]*UserResolver, error) {
	users, err := p.root.Resolver.TaggedUsers(ctx, &p.photo)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return p.root.users(users), nil
}

// AuthPayloadResolver resolves AuthPayload fields.
type AuthPayloadResolver struct {
	root    *Resolver
	payload models.AuthPayload
}

func (a *AuthPayloadResolver) Token() string { return a.payload.Token }

func (a *AuthPayloadResolver) User() *UserResolver {
	return &UserResolver{root: a.root, user: a.payload.User}
}
