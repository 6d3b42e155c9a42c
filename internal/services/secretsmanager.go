package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SecretsManagerService struct {
	client secretsManagerAPI
}

func NewSecretsManagerService(client secretsManagerAPI) *SecretsManagerService {
	return &SecretsManagerService{
		client: client,
	}
}

type GitHubPATSecret struct {
	GitHubPAT string `json:"github_pat"`
}

// GetSecret retrieves a secret value by path from AWS Secrets Manager
func (s *SecretsManagerService) GetSecret(ctx context.Context, secretPath string) (string, error) {
	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", secretPath, awsErrorContext(err))
	}

	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretPath)
	}

	return *result.SecretString, nil
}

// GetGitHubPAT retrieves a GitHub PAT token from AWS Secrets Manager. The
// secret is either a JSON document with a github_pat field or the bare token.
func (s *SecretsManagerService) GetGitHubPAT(ctx context.Context, secretPath string) (string, error) {
	value, err := s.GetSecret(ctx, secretPath)
	if err != nil {
		return "", err
	}

	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") {
		if value == "" {
			return "", fmt.Errorf("secret %s is empty", secretPath)
		}
		return value, nil
	}

	var patSecret GitHubPATSecret
	if err := json.Unmarshal([]byte(value), &patSecret); err != nil {
		return "", fmt.Errorf("failed to unmarshal GitHub PAT secret: %w", err)
	}

	if patSecret.GitHubPAT == "" {
		return "", fmt.Errorf("github_pat field is empty in secret %s", secretPath)
	}

	return patSecret.GitHubPAT, nil
}

// awsErrorContext prefixes the AWS error code so operators can tell an access
// problem from a missing resource.
func awsErrorContext(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
