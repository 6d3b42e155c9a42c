package orchestrator

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/artifacts"
	"github.com/savaki/forge-bootstrap/internal/config"
	"github.com/savaki/forge-bootstrap/internal/console"
	"github.com/savaki/forge-bootstrap/internal/errors"
	"github.com/savaki/forge-bootstrap/internal/services"
)

const (
	DeployScriptName = "deploy.sh"
	FirstPostName    = "create-first-post.json"
)

// Forge is the subset of the GitHub API used by a bootstrap run.
type Forge interface {
	CreateRepository(ctx context.Context, input services.CreateRepositoryInput) (*services.Repository, error)
	GetRepository(ctx context.Context, owner, repo string) (*services.Repository, error)
	ConfigurePages(ctx context.Context, owner, repo, branch, path string) error
	GetPages(ctx context.Context, owner, repo string) (*services.PagesStatus, error)
	CountDiscussions(ctx context.Context, owner, repo string) (int, error)
}

// Options tune a Bootstrapper.
type Options struct {
	// Token is the forge credential; it is also embedded in the founding post
	// artifact unless RedactToken is set.
	Token       string
	RedactToken bool
	// APIBaseURL is used to build the URL of the founding post API call.
	APIBaseURL string
	Delays     Delays
	Sleep      Sleeper
}

// Bootstrapper sets up a community repository in six fixed steps.
type Bootstrapper struct {
	community config.Community
	forge     Forge
	writer    artifacts.Writer
	printer   *console.Printer
	opts      Options

	// repo is set by the ensure repository step.
	repo *services.Repository
}

func NewBootstrapper(community config.Community, forge Forge, writer artifacts.Writer, printer *console.Printer, opts Options) *Bootstrapper {
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = services.DefaultGitHubAPIURL
	}
	if !strings.HasSuffix(opts.APIBaseURL, "/") {
		opts.APIBaseURL += "/"
	}

	return &Bootstrapper{
		community: community,
		forge:     forge,
		writer:    writer,
		printer:   printer,
		opts:      opts,
	}
}

// Repository returns the repository handle, or nil before it has been obtained.
func (b *Bootstrapper) Repository() *services.Repository {
	return b.repo
}

// Steps returns the fixed step sequence.
func (b *Bootstrapper) Steps() []Step {
	return []Step{
		{Name: "Create repository", Run: b.ensureRepository},
		{Name: "Enable discussions", Run: b.enableDiscussions},
		{Name: "Upload files", Run: b.generateDeployment},
		{Name: "Configure Pages", Run: b.configurePages},
		{Name: "Prepare founding post", Run: b.prepareFoundingPost},
		{Name: "Check status", Run: b.checkStatus},
	}
}

// Run executes every step and prints the summary. It fails before any network
// activity when no token is configured. Step failures only affect the banner.
func (b *Bootstrapper) Run(ctx context.Context) (Result, error) {
	if strings.TrimSpace(b.opts.Token) == "" {
		PrintMissingToken(b.printer)
		return Result{}, errors.ErrMissingToken
	}

	logger := zerolog.Ctx(ctx).With().
		Str("owner", b.community.Owner).
		Str("repo", b.community.RepoName).
		Logger()
	ctx = logger.WithContext(ctx)

	b.printer.Title("🚀 %s - GitHub bootstrap", b.community.RepoName)
	b.printer.Rule(true)
	b.printer.Info("GitHub account: %s", b.community.Owner)
	b.printer.Info("Repository: %s", b.community.RepoName)
	b.printer.Rule(true)

	logger.Info().Msg("Starting bootstrap")

	result, err := Execute(ctx, b.printer, b.Steps(), b.opts.Delays.BetweenSteps, b.opts.Sleep)
	if err != nil {
		return result, err
	}

	b.printSummary(result)

	logger.Info().Bool("success", result.Success).Msg("Bootstrap finished")
	return result, nil
}

// PrintMissingToken tells the operator how to supply the credential.
func PrintMissingToken(p *console.Printer) {
	p.Fail("A GitHub token is required: set the GITHUB_TOKEN environment variable")
	p.Detail("Usage: GITHUB_TOKEN=your_token forge-bootstrap")
}

func (b *Bootstrapper) printSummary(result Result) {
	p := b.printer

	p.Blank()
	p.Rule(true)
	if result.Success {
		p.Success("🎉 Bootstrap complete!")
		p.Detail("Website: %s", b.community.SiteURL())
		if b.repo != nil {
			p.Detail("Discussions: %s/discussions", b.repo.HTMLURL)
		}
		p.Blank()
		p.Info("Next steps:")
		p.Detail("1. Run the generated deployment script to upload the files")
		p.Detail("2. Create the founding post through the API or the web interface")
		p.Detail("3. Start running the community!")
	} else {
		p.Warn("Bootstrap completed with issues, check the output above")
		p.Detail("Some steps may need to be finished manually:")
		for _, step := range result.Steps {
			if !step.OK {
				p.Detail("- %s", step.Name)
			}
		}
		p.Blank()
		p.Info("Suggested actions:")
		p.Detail("1. Run bash %s once the repository exists", DeployScriptName)
		p.Detail("2. Enable Pages under Settings > Pages (branch %s, path %s)", b.community.Branch, b.community.PagesPath)
		p.Detail("3. Create the founding post using %s", FirstPostName)
	}
	p.Rule(true)
	p.Blank()
}
