package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/artifacts"
	"github.com/savaki/forge-bootstrap/internal/config"
	"github.com/savaki/forge-bootstrap/internal/console"
	"github.com/savaki/forge-bootstrap/internal/orchestrator"
	"github.com/savaki/forge-bootstrap/internal/services"
)

func ProvideGitHubService(token Token, settings Settings) (*services.GitHubService, error) {
	return services.NewGitHubService(string(token),
		services.WithBaseURL(settings.APIURL),
		services.WithTimeout(settings.Timeout),
	)
}

func ProvideForge(gh *services.GitHubService) orchestrator.Forge {
	return gh
}

// ProvideArtifactWriter writes artifacts to the output directory and, when a
// bucket is configured, mirrors them to s3://bucket/prefix/run-id/.
func ProvideArtifactWriter(ctx context.Context, settings Settings, runID RunID, a *AWS) (artifacts.Writer, error) {
	files, err := artifacts.NewFileWriter(settings.OutputDir)
	if err != nil {
		return nil, err
	}

	if settings.ArtifactBucket == "" {
		return files, nil
	}

	cfg, err := a.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	prefix := settings.ArtifactPrefix + "/" + string(runID)
	zerolog.Ctx(ctx).Info().
		Str("bucket", settings.ArtifactBucket).
		Str("prefix", prefix).
		Msg("Mirroring artifacts to S3")

	return artifacts.Tee(files, artifacts.NewS3Writer(s3.NewFromConfig(cfg), settings.ArtifactBucket, prefix)), nil
}

func ProvidePrinter(settings Settings) *console.Printer {
	return console.New(settings.Out)
}

func ProvideBootstrapper(
	community config.Community,
	forge orchestrator.Forge,
	writer artifacts.Writer,
	printer *console.Printer,
	token Token,
	settings Settings,
) *orchestrator.Bootstrapper {
	return orchestrator.NewBootstrapper(community, forge, writer, printer, orchestrator.Options{
		Token:       string(token),
		RedactToken: settings.RedactToken,
		APIBaseURL:  settings.APIURL,
		Delays:      settings.Delays,
	})
}
