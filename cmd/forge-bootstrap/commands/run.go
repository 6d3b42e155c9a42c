package commands

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/console"
	"github.com/savaki/forge-bootstrap/internal/di"
	apperrors "github.com/savaki/forge-bootstrap/internal/errors"
	"github.com/savaki/forge-bootstrap/internal/orchestrator"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/dig"
)

// RunCommand returns the run command, which is also the default action.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Bootstrap the community repository",
		Description: `Runs the six bootstrap steps in order:

  1. Create repository (reuses it when it already exists)
  2. Enable discussions
  3. Upload files (generates deploy.sh)
  4. Configure Pages
  5. Prepare founding post (generates create-first-post.json)
  6. Check status

Examples:
  # Bootstrap with the built-in defaults
  GITHUB_TOKEN=ghp_xxx forge-bootstrap run

  # Bootstrap a different repository described by a config file
  GITHUB_TOKEN=ghp_xxx forge-bootstrap --config community.yaml --repo my-community run

  # Read the token from SSM and keep it out of the generated files
  forge-bootstrap --github-token-parameter /forge/github-token --redact-token run`,
		Action: RunAction,
	}
}

// RunAction bootstraps the repository. Step failures are reported in the
// summary and do not change the exit status.
func RunAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	community, err := loadCommunity(c)
	if err != nil {
		return err
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	runID := di.RunID(ksuid.New().String())
	logger := zerolog.Ctx(ctx).With().Str("run_id", string(runID)).Logger()
	ctx = logger.WithContext(ctx)

	container, err := di.New(runID,
		di.WithContext(ctx),
		di.WithCommunity(community),
		di.WithSettings(settings),
	)
	if err != nil {
		return err
	}

	bootstrapper, err := di.Get[*orchestrator.Bootstrapper](container)
	if err != nil {
		if cause := dig.RootCause(err); errors.Is(cause, apperrors.ErrMissingToken) {
			orchestrator.PrintMissingToken(console.New(settings.Out))
			return cause
		}
		return err
	}

	result, err := bootstrapper.Run(ctx)
	if err != nil {
		return err
	}

	logger.Debug().
		Bool("success", result.Success).
		Int("steps", len(result.Steps)).
		Msg("Run finished")
	return nil
}
