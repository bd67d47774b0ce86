// Package randomuser fetches generated identities used by addFakeUsers.
package randomuser

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/pkg/clients"
	"photoshare/pkg/logging"
	"photoshare/pkg/models"
)

const (
	serviceName = "randomuser"
	DefaultURL  = "https://randomuser.me/api/"
)

type Config struct {
	URL     string
	Timeout time.Duration
	Logger  logging.Logger
	Metrics *clients.UpstreamMetrics
}

type response struct {
	Results []result `json:"results"`
	Error   string   `json:"error"`
}

type result struct {
	Login struct {
		Username string `json:"username"`
		SHA1     string `json:"sha1"`
	} `json:"login"`
	Name struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Picture struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"picture"`
}

func (r result) user() models.User {
	return models.User{
		GithubLogin: r.Login.Username,
		Name:        r.Name.First + " " + r.Name.Last,
		Avatar:      r.Picture.Thumbnail,
		GithubToken: r.Login.SHA1,
	}
}

type Client struct {
	http    *resty.Client
	url     string
	breaker *clients.CircuitBreaker
	logger  logging.Logger
	metrics *clients.UpstreamMetrics
}

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	breakerCfg := clients.DefaultCircuitBreakerConfig()
	breakerCfg.Name = serviceName
	breakerCfg.Logger = cfg.Logger
	breakerCfg.IsFailure = gwerrors.IsTemporaryUpstream
	breakerCfg.OnStateChange = clients.CircuitBreakerMetricsCallback()

	return &Client{
		http:    resty.New().SetTimeout(cfg.Timeout).SetHeader("Accept", "application/json"),
		url:     cfg.URL,
		breaker: clients.NewCircuitBreaker(breakerCfg),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

func (c *Client) Breaker() *clients.CircuitBreaker { return c.breaker }

// Generate returns count generated users in the order the service listed them.
func (c *Client) Generate(ctx context.Context, count int) ([]models.User, error) {
	if count < 1 {
		return nil, gwerrors.InvalidInput("count must be at least 1, got %d", count)
	}

	start := time.Now()
	users, err := clients.Do(ctx, c.breaker, func(ctx context.Context) ([]models.User, error) {
		return c.fetch(ctx, count)
	})
	c.metrics.Observe(serviceName, start, err)
	c.metrics.ObserveBreaker(c.breaker)

	if clients.IsOpenError(err) {
		return nil, &gwerrors.UpstreamError{
			Service:   serviceName,
			Message:   "random user service is temporarily unavailable",
			Temporary: true,
			Err:       err,
		}
	}
	if err != nil && c.logger != nil {
		c.logger.WithError(err).WithField("count", count).Warn("Random user request failed")
	}
	return users, err
}

func (c *Client) fetch(ctx context.Context, count int) ([]models.User, error) {
	var body response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("results", strconv.Itoa(count)).
		SetResult(&body).
		SetError(&body).
		Get(c.url)
	if err != nil {
		return nil, &gwerrors.UpstreamError{Service: serviceName, Temporary: true, Err: err}
	}
	if resp.IsError() || body.Error != "" {
		msg := body.Error
		if msg == "" {
			msg = fmt.Sprintf("random user request failed with status %d", resp.StatusCode())
		}
		return nil, &gwerrors.UpstreamError{
			Service:   serviceName,
			Message:   msg,
			Temporary: resp.StatusCode() >= http.StatusInternalServerError || resp.StatusCode() == http.StatusTooManyRequests,
		}
	}

	users := make([]models.User, 0, len(body.Results))
	for _, r := range body.Results {
		users = append(users, r.user())
	}
	return users, nil
}
