// Package github performs the GitHub OAuth code exchange and profile fetch
// used by the githubAuth mutation.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/pkg/clients"
	"photoshare/pkg/logging"
	"photoshare/pkg/models"
)

const serviceName = "github"

// Config configures the GitHub collaborator. Empty URLs use github.com.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIURL       string
	Timeout      time.Duration
	Logger       logging.Logger
	Metrics      *clients.UpstreamMetrics
}

// Profile is the subset of GET /user the gateway keeps.
type Profile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type apiError struct {
	Message string `json:"message"`
}

// Client exchanges OAuth codes and loads the signed-in profile.
type Client struct {
	oauth   *oauth2.Config
	api     *resty.Client
	http    *http.Client
	breaker *clients.CircuitBreaker
	logger  logging.Logger
	metrics *clients.UpstreamMetrics
}

// NewClient builds a client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.github.com"
	}

	endpoint := githuboauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	breakerCfg := clients.DefaultCircuitBreakerConfig()
	breakerCfg.Name = serviceName
	breakerCfg.Logger = cfg.Logger
	breakerCfg.IsFailure = gwerrors.IsTemporaryUpstream
	breakerCfg.OnStateChange = clients.CircuitBreakerMetricsCallback()

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"user"},
		},
		api: resty.New().
			SetBaseURL(cfg.APIURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: clients.NewCircuitBreaker(breakerCfg),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

func (c *Client) Breaker() *clients.CircuitBreaker { return c.breaker }

// AuthCodeURL returns the provider page a user visits to obtain a code.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Authorize exchanges code for an access token and returns the profile as a
// User carrying that token.
func (c *Client) Authorize(ctx context.Context, code string) (models.User, error) {
	start := time.Now()
	user, err := clients.Do(ctx, c.breaker, func(ctx context.Context) (models.User, error) {
		token, err := c.exchange(ctx, code)
		if err != nil {
			return models.User{}, err
		}
		profile, err := c.profile(ctx, token)
		if err != nil {
			return models.User{}, err
		}
		return models.User{
			GithubLogin: profile.Login,
			Name:        profile.Name,
			Avatar:      profile.AvatarURL,
			GithubToken: token,
		}, nil
	})
	c.metrics.Observe(serviceName, start, err)
	c.metrics.ObserveBreaker(c.breaker)

	if clients.IsOpenError(err) {
		return models.User{}, &gwerrors.UpstreamError{
			Service:   serviceName,
			Message:   "github is temporarily unavailable",
			Temporary: true,
			Err:       err,
		}
	}
	if err != nil && c.logger != nil {
		c.logger.WithError(err).Warn("GitHub authorization failed")
	}
	return user, err
}

func (c *Client) exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", exchangeError(err)
	}
	return tok.AccessToken, nil
}

func exchangeError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		msg := re.ErrorDescription
		if msg == "" {
			msg = re.ErrorCode
		}
		if msg == "" {
			msg = "github token exchange failed"
		}
		temporary := re.Response != nil && isTemporaryStatus(re.Response.StatusCode)
		return &gwerrors.UpstreamError{Service: serviceName, Message: msg, Temporary: temporary, Err: err}
	}
	return &gwerrors.UpstreamError{Service: serviceName, Temporary: true, Err: err}
}

func (c *Client) profile(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	var apiErr apiError
	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&profile).
		SetError(&apiErr).
		Get("/user")
	if err != nil {
		return nil, &gwerrors.UpstreamError{Service: serviceName, Temporary: true, Err: err}
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("github profile request failed with status %d", resp.StatusCode())
		}
		return nil, &gwerrors.UpstreamError{
			Service:   serviceName,
			Message:   msg,
			Temporary: isTemporaryStatus(resp.StatusCode()),
		}
	}
	if profile.Login == "" {
		return nil, &gwerrors.UpstreamError{Service: serviceName, Message: "github profile response missing login"}
	}
	return &profile, nil
}

func isTemporaryStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}
