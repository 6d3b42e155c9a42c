package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/config"
	"github.com/savaki/forge-bootstrap/internal/di"
	"github.com/savaki/forge-bootstrap/internal/orchestrator"
	"github.com/savaki/forge-bootstrap/internal/services"
	"github.com/urfave/cli/v2"
)

// Flags returns the global flags shared by every command.
func Flags() []cli.Flag {
	delays := orchestrator.DefaultDelays()

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file describing the community; relative paths resolve against its directory",
			EnvVars: []string{"FORGE_BOOTSTRAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "GitHub account that owns the repository",
		},
		&cli.StringFlag{
			Name:  "repo",
			Usage: "Repository name",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Repository description",
		},
		&cli.StringFlag{
			Name:    "github-token",
			Usage:   "GitHub personal access token",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "github-token-parameter",
			Usage:   "SSM parameter holding the GitHub token",
			EnvVars: []string{"GITHUB_TOKEN_PARAMETER"},
		},
		&cli.StringFlag{
			Name:    "github-token-secret",
			Usage:   "Secrets Manager secret holding the GitHub token",
			EnvVars: []string{"GITHUB_TOKEN_SECRET"},
		},
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "GitHub API base URL",
			Value:   services.DefaultGitHubAPIURL,
			EnvVars: []string{"GITHUB_API_URL"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for each GitHub API call",
			Value: services.DefaultGitHubTimeout,
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory for the generated deploy.sh and create-first-post.json",
			Value:   ".",
		},
		&cli.BoolFlag{
			Name:  "redact-token",
			Usage: "Write ${GITHUB_TOKEN} instead of the token into create-first-post.json",
		},
		&cli.StringFlag{
			Name:    "artifact-bucket",
			Usage:   "S3 bucket to mirror generated artifacts to",
			EnvVars: []string{"ARTIFACT_BUCKET"},
		},
		&cli.StringFlag{
			Name:  "artifact-prefix",
			Usage: "Key prefix for mirrored artifacts",
			Value: "forge-bootstrap",
		},
		&cli.DurationFlag{
			Name:  "step-delay",
			Usage: "Pause between steps",
			Value: delays.BetweenSteps,
		},
		&cli.DurationFlag{
			Name:  "repo-init-wait",
			Usage: "Pause after creating the repository",
			Value: delays.RepositoryInit,
		},
		&cli.DurationFlag{
			Name:  "pages-wait",
			Usage: "Pause after configuring Pages",
			Value: delays.PagesDeploy,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// Before replaces the logger once --verbose is known.
func Before(logger *zerolog.Logger) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.Bool("verbose") {
			*logger = di.ProvideLogger(true)
			c.Context = logger.WithContext(c.Context)
		}
		return nil
	}
}

// loadCommunity builds the community record from defaults, the optional
// config file and flag overrides.
func loadCommunity(c *cli.Context) (config.Community, error) {
	var community config.Community
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Community{}, err
		}
		community = loaded
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return config.Community{}, err
		}
		community = config.Default().Resolve(wd)
	}

	if v := c.String("owner"); v != "" {
		community.Owner = v
	}
	if v := c.String("repo"); v != "" {
		community.RepoName = v
	}
	if v := c.String("description"); v != "" {
		community.Description = v
	}

	if err := community.Validate(); err != nil {
		return config.Community{}, err
	}
	return community, nil
}

func loadSettings(c *cli.Context) (di.Settings, error) {
	outputDir, err := filepath.Abs(c.String("output-dir"))
	if err != nil {
		return di.Settings{}, err
	}

	settings := di.DefaultSettings()
	settings.Token = services.TokenOptions{
		Value:     c.String("github-token"),
		Parameter: c.String("github-token-parameter"),
		Secret:    c.String("github-token-secret"),
	}
	settings.APIURL = c.String("api-url")
	settings.Timeout = c.Duration("timeout")
	settings.OutputDir = outputDir
	settings.RedactToken = c.Bool("redact-token")
	settings.ArtifactBucket = c.String("artifact-bucket")
	settings.ArtifactPrefix = c.String("artifact-prefix")
	settings.Out = c.App.Writer
	settings.Delays = orchestrator.Delays{
		BetweenSteps:   c.Duration("step-delay"),
		RepositoryInit: c.Duration("repo-init-wait"),
		PagesDeploy:    c.Duration("pages-wait"),
	}
	return settings, nil
}
