package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/errors"
)

// TokenOptions lists the places a forge token may come from, in priority order.
type TokenOptions struct {
	// Value is an explicit token, normally read from GITHUB_TOKEN.
	Value string
	// Parameter names an SSM parameter holding the token.
	Parameter string
	// Secret is a Secrets Manager path holding the token.
	Secret string
}

type PATReader interface {
	GetGitHubPAT(ctx context.Context, secretPath string) (string, error)
}

// ResolveToken returns the first non-empty token from opts. When nothing is
// configured it returns errors.ErrMissingToken without touching the network.
func ResolveToken(ctx context.Context, opts TokenOptions, store ParameterStore, secrets PATReader) (string, error) {
	logger := zerolog.Ctx(ctx)

	if token := strings.TrimSpace(opts.Value); token != "" {
		logger.Debug().Str("source", "env").Msg("Using GitHub token")
		return token, nil
	}

	if opts.Parameter != "" && store != nil {
		token, err := store.GetParameter(ctx, opts.Parameter)
		if err != nil {
			return "", fmt.Errorf("failed to read GitHub token parameter: %w", err)
		}
		if token = strings.TrimSpace(token); token != "" {
			logger.Debug().Str("source", "parameter").Str("parameter", opts.Parameter).Msg("Using GitHub token")
			return token, nil
		}
	}

	if opts.Secret != "" && secrets != nil {
		token, err := secrets.GetGitHubPAT(ctx, opts.Secret)
		if err != nil {
			return "", fmt.Errorf("failed to get GitHub token from Secrets Manager: %w", err)
		}
		logger.Debug().Str("source", "secret").Str("secret", opts.Secret).Msg("Using GitHub token")
		return token, nil
	}

	return "", errors.ErrMissingToken
}
