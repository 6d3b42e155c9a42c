package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/services"
)

// Token is the resolved forge credential.
type Token string

// ProvideParameterStore returns an SSM backed store, or nil when no token
// parameter was named.
func ProvideParameterStore(ctx context.Context, settings Settings, a *AWS) (services.ParameterStore, error) {
	logger := zerolog.Ctx(ctx)

	if settings.Token.Parameter == "" {
		return nil, nil
	}

	cfg, err := a.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Debug().Str("parameter", settings.Token.Parameter).Msg("Using AWS Systems Manager Parameter Store for the GitHub token")
	return services.NewSSMParameterStore(ssm.NewFromConfig(cfg)), nil
}

// ProvidePATReader returns a Secrets Manager reader, or nil when no secret was named.
func ProvidePATReader(ctx context.Context, settings Settings, a *AWS) (services.PATReader, error) {
	if settings.Token.Secret == "" {
		return nil, nil
	}

	cfg, err := a.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("secret", settings.Token.Secret).Msg("Using AWS Secrets Manager for the GitHub token")
	return services.NewSecretsManagerService(secretsmanager.NewFromConfig(cfg)), nil
}

// ProvideToken resolves the forge credential. A missing credential surfaces
// as errors.ErrMissingToken wrapped by dig.
func ProvideToken(ctx context.Context, settings Settings, store services.ParameterStore, secrets services.PATReader) (Token, error) {
	token, err := services.ResolveToken(ctx, settings.Token, store, secrets)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}
