package resolvers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/api_gateway/internal/store"
	"photoshare/pkg/logging"
	"photoshare/pkg/models"
)

// GraphQLMetrics holds all Prometheus metrics for GraphQL operations
type GraphQLMetrics struct {
	Operations *prometheus.CounterVec   // labels: operation, status
	Duration   *prometheus.HistogramVec // labels: operation
}

// IdentityProvider signs users in with an OAuth code.
type IdentityProvider interface {
	Authorize(ctx context.Context, code string) (models.User, error)
}

// IdentityGenerator produces generated users for addFakeUsers.
type IdentityGenerator interface {
	Generate(ctx context.Context, count int) ([]models.User, error)
}

// Resolver holds the dependencies shared by every operation.
type Resolver struct {
	Store      store.Store
	GitHub     IdentityProvider
	Identities IdentityGenerator
	Logger     logging.Logger
	Metrics    *GraphQLMetrics

	// Now is the server clock used to stamp new photos.
	Now func() time.Time
}

// NewResolver creates a new GraphQL resolver
func NewResolver(s store.Store, gh IdentityProvider, ids IdentityGenerator, logger logging.Logger, metrics *GraphQLMetrics) *Resolver {
	return &Resolver{
		Store:      s,
		GitHub:     gh,
		Identities: ids,
		Logger:     logger,
		Metrics:    metrics,
		Now:        time.Now,
	}
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return r.Now().UTC().Truncate(time.Millisecond)
}

// observe records metrics for op and logs failures. Expected failures
// (taxonomy errors) log at info; anything else at error.
func (r *Resolver) observe(ctx context.Context, op string, start time.Time, err error) {
	if r.Metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		r.Metrics.Operations.WithLabelValues(op, status).Inc()
		r.Metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
	if err == nil || r.Logger == nil {
		return
	}

	entry := r.Logger.WithError(err).WithFields(logging.Fields{
		"operation": op,
		"code":      gwerrors.Code(err),
	})
	if login := currentLogin(ctx); login != "" {
		entry = entry.WithField("github_login", login)
	}
	if gwerrors.Code(err) == gwerrors.CodeInternal {
		entry.Error("GraphQL operation failed")
		return
	}
	entry.Info("GraphQL operation rejected")
}
