package graph

import (
	"context"
	"math"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/api_gateway/internal/resolvers"
	pkggraphql "photoshare/pkg/graphql"
	"photoshare/pkg/logging"
	"photoshare/pkg/models"
)

// Resolver is the schema root. It adapts GraphQL arguments to the Do*
// operations and wraps results in type resolvers.
type Resolver struct {
	*resolvers.Resolver
}

// NewResolver wraps the operation layer.
func NewResolver(r *resolvers.Resolver) *Resolver {
	return &Resolver{Resolver: r}
}

// Options tune schema execution.
type Options struct {
	MaxParallelism int
	Logger         logging.Logger
}

// NewSchema parses the embedded SDL against root.
func NewSchema(root *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}
	if opts.Logger != nil {
		schemaOpts = append(schemaOpts, graphql.Logger(panicLogger{logger: opts.Logger}))
	}
	return graphql.ParseSchema(pkggraphql.Schema, root, schemaOpts...)
}

type panicLogger struct {
	logger logging.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.WithField("panic", value).Error("GraphQL resolver panicked")
}

func clampInt32(n int64) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int32(n)
}

// Queries

func (r *Resolver) Me(ctx context.Context) *UserResolver {
	return r.user(r.DoMe(ctx))
}

func (r *Resolver) TotalPhotos(ctx context.Context) (int32, error) {
	n, err := r.DoTotalPhotos(ctx)
	return clampInt32(n), gwerrors.Present(err)
}

func (r *Resolver) AllPhotos(ctx context.Context, args struct{ After *DateTime }) ([]*PhotoResolver, error) {
	var after *time.Time
	if args.After != nil {
		after = &args.After.Time
	}
	photos, err := r.DoAllPhotos(ctx, after)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return r.photos(photos), nil
}

func (r *Resolver) TotalUsers(ctx context.Context) (int32, error) {
	n, err := r.DoTotalUsers(ctx)
	return clampInt32(n), gwerrors.Present(err)
}

func (r *Resolver) AllUsers(ctx context.Context) ([]*UserResolver, error) {
	users, err := r.DoAllUsers(ctx)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return r.users(users), nil
}

// Mutations

// Fields with a schema default are non-null on the resolver side.
type postPhotoInput struct {
	Name        string
	Category    string
	Description *string
}

func (r *Resolver) PostPhoto(ctx context.Context, args struct{ Input postPhotoInput }) (*PhotoResolver, error) {
	in := resolvers.PostPhotoInput{
		Name:        args.Input.Name,
		Description: args.Input.Description,
	}
	if args.Input.Category != "" {
		c := models.PhotoCategory(args.Input.Category)
		in.Category = &c
	}
	photo, err := r.DoPostPhoto(ctx, in)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return r.photo(*photo), nil
}

func (r *Resolver) GithubAuth(ctx context.Context, args struct{ Code string }) (*AuthPayloadResolver, error) {
	payload, err := r.DoGithubAuth(ctx, args.Code)
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return &AuthPayloadResolver{root: r, payload: *payload}, nil
}

func (r *Resolver) AddFakeUsers(ctx context.Context, args struct{ Count int32 }) ([]*UserResolver, error) {
	users, err := r.DoAddFakeUsers(ctx, int(args.Count))
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return r.users(users), nil
}

func (r *Resolver) FakeUserAuth(ctx context.Context, args struct{ GithubLogin graphql.ID }) (*AuthPayloadResolver, error) {
	payload, err := r.DoFakeUserAuth(ctx, string(args.GithubLogin))
	if err != nil {
		return nil, gwerrors.Present(err)
	}
	return &AuthPayloadResolver{root: r, payload: *payload}, nil
}
