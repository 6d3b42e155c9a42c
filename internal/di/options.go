package di

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/savaki/forge-bootstrap/internal/config"
	"github.com/savaki/forge-bootstrap/internal/orchestrator"
	"github.com/savaki/forge-bootstrap/internal/services"
)

// Settings are the run-time knobs that are not part of the community record.
type Settings struct {
	Token       services.TokenOptions
	APIURL      string
	Timeout     time.Duration
	OutputDir   string
	RedactToken bool

	// ArtifactBucket enables mirroring generated artifacts to S3.
	ArtifactBucket string
	ArtifactPrefix string

	Out    io.Writer
	Delays orchestrator.Delays
}

func DefaultSettings() Settings {
	return Settings{
		APIURL:         services.DefaultGitHubAPIURL,
		Timeout:        services.DefaultGitHubTimeout,
		OutputDir:      ".",
		ArtifactPrefix: "forge-bootstrap",
		Out:            os.Stdout,
		Delays:         orchestrator.DefaultDelays(),
	}
}

// Option is a function that configures the dependency injection container.
type Option func(*options)

func WithContext(ctx context.Context) Option {
	return func(opts *options) {
		opts.ctx = ctx
	}
}

func WithCommunity(community config.Community) Option {
	return func(opts *options) {
		opts.community = community
	}
}

func WithSettings(settings Settings) Option {
	return func(opts *options) {
		opts.settings = settings
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	ctx       context.Context
	community config.Community
	settings  Settings
	providers []any
}
