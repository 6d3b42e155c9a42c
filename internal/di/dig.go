// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"context"

	"github.com/savaki/forge-bootstrap/internal/config"
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
// This interface allows for easy testing and mocking of the DI container.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error

	// Scope creates a scoped sub-container with its own set of values.
	Scope(name string, opts ...dig.ScopeOption) *dig.Scope
}

// RunID identifies a single bootstrap run in logs and artifact keys.
type RunID string

// MustGet returns an instance constructed via dependency injection or panics.
// This is a convenience function for retrieving a dependency from the container
// when you're certain it exists. If the dependency cannot be resolved, it will panic.
//
// Example:
//
//	printer := MustGet[*console.Printer](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// Get is MustGet for callers that want the resolution error.
func Get[T any](container Container) (want T, err error) {
	err = container.Invoke(func(got T) {
		want = got
	})
	return want, err
}

// New creates a new dependency injection container for a single run.
// The run id, context, settings and community configuration supplied through
// options are registered before the core providers.
//
// Example:
//
//	container, err := New(runID,
//	    WithContext(ctx),
//	    WithCommunity(community),
//	    WithSettings(settings),
//	)
func New(runID RunID, opts ...Option) (Container, error) {
	o := options{
		ctx:       context.Background(),
		community: config.Default(),
		settings:  DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	container := dig.New()
	if err := container.Provide(func() RunID { return runID }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() context.Context { return o.ctx }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() config.Community { return o.community }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() Settings { return o.settings }); err != nil {
		return nil, err
	}

	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideAWS,
	ProvideParameterStore,
	ProvidePATReader,
	ProvideToken,
	ProvideGitHubService,
	ProvideForge,
	ProvideArtifactWriter,
	ProvidePrinter,
	ProvideBootstrapper,
}
