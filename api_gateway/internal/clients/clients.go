package clients

import (
	"time"

	"photoshare/api_gateway/internal/clients/github"
	"photoshare/api_gateway/internal/clients/randomuser"
	pkgclients "photoshare/pkg/clients"
	"photoshare/pkg/config"
	"photoshare/pkg/logging"
)

// ServiceClients holds the external collaborators the resolvers call.
type ServiceClients struct {
	GitHub     *github.Client
	RandomUser *randomuser.Client
}

// Config represents the configuration shared by all collaborators
type Config struct {
	Timeout time.Duration
	Logger  logging.Logger
	Metrics *pkgclients.UpstreamMetrics
}

// NewServiceClients creates the collaborators from environment configuration.
func NewServiceClients(cfg Config) *ServiceClients {
	if cfg.Timeout == 0 {
		cfg.Timeout = config.GetEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	}

	gh := github.NewClient(github.Config{
		ClientID:     config.GetEnv("GITHUB_CLIENT_ID", ""),
		ClientSecret: config.GetEnv("GITHUB_CLIENT_SECRET", ""),
		RedirectURL:  config.GetEnv("GITHUB_REDIRECT_URI", "http://localhost:3000"),
		AuthURL:      config.GetEnv("GITHUB_AUTH_URL", ""),
		TokenURL:     config.GetEnv("GITHUB_TOKEN_URL", ""),
		APIURL:       config.GetEnv("GITHUB_API_URL", ""),
		Timeout:      cfg.Timeout,
		Logger:       cfg.Logger,
		Metrics:      cfg.Metrics,
	})

	ru := randomuser.NewClient(randomuser.Config{
		URL:     config.GetEnv("RANDOM_USER_URL", randomuser.DefaultURL),
		Timeout: cfg.Timeout,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})

	if cfg.Logger != nil && config.GetEnv("GITHUB_CLIENT_ID", "") == "" {
		cfg.Logger.Warn("GITHUB_CLIENT_ID is not set; githubAuth will fail until it is configured")
	}

	return &ServiceClients{GitHub: gh, RandomUser: ru}
}

// Breakers lists the circuit breakers guarding each collaborator.
func (s *ServiceClients) Breakers() []*pkgclients.CircuitBreaker {
	return []*pkgclients.CircuitBreaker{s.GitHub.Breaker(), s.RandomUser.Breaker()}
}
