package orchestrator

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/errors"
	"github.com/savaki/forge-bootstrap/internal/services"
)

// ensureRepository creates the repository, falling back to the existing one
// when the forge answers 422. Any other failure ends the step.
func (b *Bootstrapper) ensureRepository(ctx context.Context) bool {
	logger := zerolog.Ctx(ctx)
	c := b.community

	repo, err := b.forge.CreateRepository(ctx, services.CreateRepositoryInput{
		Name:        c.RepoName,
		Description: c.Description,
		Private:     false,
		AutoInit:    true,
	})
	if err == nil {
		b.repo = repo
		b.printer.Success("Repository created: %s", repo.HTMLURL)
		b.printer.Detail("Clone URL: %s", repo.CloneURL)
		logger.Info().Str("html_url", repo.HTMLURL).Msg("Created repository")

		b.opts.Sleep(ctx, b.opts.Delays.RepositoryInit)
		return true
	}

	if !services.IsConflict(err) {
		logger.Error().Err(err).Int("status", services.StatusCode(err)).Msg("Failed to create repository")
		b.printer.Fail("Failed to create repository: %s", services.Message(err))
		return false
	}

	b.printer.Warn("Repository already exists, trying to use the existing repository...")
	repo, err = b.forge.GetRepository(ctx, c.Owner, c.RepoName)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch existing repository")
		b.printer.Fail("Cannot access the existing repository: %s", services.Message(err))
		return false
	}

	b.repo = repo
	b.printer.Success("Using existing repository: %s", repo.HTMLURL)
	logger.Info().Str("html_url", repo.HTMLURL).Msg("Reusing existing repository")
	return true
}

// enableDiscussions has nothing to call: the REST API cannot toggle the
// feature and new repositories have it available.
func (b *Bootstrapper) enableDiscussions(_ context.Context) bool {
	b.printer.Success("Discussions are usually available on new repositories")
	b.printer.Detail("Categories to create: %s", strings.Join(b.community.Categories, ", "))
	return true
}

// generateDeployment writes the shell script that pushes local content into
// the repository.
func (b *Bootstrapper) generateDeployment(ctx context.Context) bool {
	if b.repo == nil {
		b.printer.Fail("Cannot generate the deployment script: %v", errors.ErrNoRepository)
		return false
	}

	c := b.community
	p := b.printer

	p.Info("File upload guide:")
	p.Detail("1. Clone the repository locally:")
	p.Detail("   git clone %s", b.repo.CloneURL)
	p.Detail("2. Copy the website, docs and templates into the clone")
	p.Detail("3. Commit and push:")
	p.Detail("   git add .")
	p.Detail("   git commit -m %q", commitMessage(c.RepoName))
	p.Detail("   git push origin %s", c.Branch)

	script, err := renderDeployScript(c, b.repo)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to render deployment script")
		p.Fail("Failed to render the deployment script: %v", err)
		return false
	}

	location, err := b.writer.Write(ctx, DeployScriptName, script, 0o755)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to write deployment script")
		p.Fail("Failed to write the deployment script: %v", err)
		return false
	}

	p.Success("Generated deployment script: %s", location)
	p.Detail("Run: bash %s to finish uploading the files", location)
	return true
}

// configurePages publishes the branch with GitHub Pages and waits for the
// first deployment. Failure is expected when Pages is already configured.
func (b *Bootstrapper) configurePages(ctx context.Context) bool {
	logger := zerolog.Ctx(ctx)
	c := b.community

	if err := b.forge.ConfigurePages(ctx, c.Owner, c.RepoName, c.Branch, c.PagesPath); err != nil {
		logger.Warn().Err(err).Int("status", services.StatusCode(err)).Msg("Failed to configure pages")
		b.printer.Fail("Failed to configure Pages: %s", services.Message(err))
		b.printer.Info("Pages may be configured automatically after the repository is initialised, check the status later")
		return false
	}

	b.printer.Success("GitHub Pages configured")
	b.printer.Detail("Website: %s", c.SiteURL())

	b.printer.Info("Waiting for the Pages deployment to finish (%s)...", b.opts.Delays.PagesDeploy)
	b.opts.Sleep(ctx, b.opts.Delays.PagesDeploy)
	return true
}

// prepareFoundingPost writes the API call that creates the founding
// announcement. A missing template fails this step only.
func (b *Bootstrapper) prepareFoundingPost(ctx context.Context) bool {
	logger := zerolog.Ctx(ctx)
	c := b.community
	p := b.printer

	templatePath := c.FoundingPostPath()
	body, err := os.ReadFile(templatePath)
	if err != nil {
		logger.Error().Err(err).Str("template", templatePath).Msg("Failed to read founding post template")
		p.Fail("%v: %s", errors.ErrTemplateNotFound, templatePath)
		return false
	}

	p.Success("Founding post content prepared")
	p.Detail("The post is created through GitHub Discussions once the site is deployed")
	p.Detail("or via the API: POST /repos/{owner}/{repo}/discussions")

	data, err := renderFoundingPost(c, b.opts.APIBaseURL, b.credential(), string(body))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to render founding post")
		p.Fail("Failed to render the founding post API call: %v", err)
		return false
	}

	location, err := b.writer.Write(ctx, FirstPostName, data, 0o600)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to write founding post")
		p.Fail("Failed to write the founding post API call: %v", err)
		return false
	}

	p.Success("API call example saved: %s", location)
	if b.opts.RedactToken {
		p.Detail("The token was replaced with %s, export it before replaying the call", tokenPlaceholder)
	} else {
		p.Warn("%s contains your GitHub token in plain text, delete it once used", location)
	}
	return true
}

// checkStatus reports the repository visibility, then Pages and discussions.
// Only the repository lookup can fail the step.
func (b *Bootstrapper) checkStatus(ctx context.Context) bool {
	logger := zerolog.Ctx(ctx)
	c := b.community
	p := b.printer

	repo, err := b.forge.GetRepository(ctx, c.Owner, c.RepoName)
	if err != nil {
		logger.Error().Err(err).Msg("Status check failed")
		p.Fail("Status check failed: %s", services.Message(err))
		return false
	}

	visibility := "public"
	if repo.Private {
		visibility = "private"
	}
	p.Success("Repository status: %s", visibility)

	if pages, err := b.forge.GetPages(ctx, c.Owner, c.RepoName); err == nil && pages != nil {
		p.Success("Pages status: %s", valueOr(pages.Status, "active"))
		p.Detail("Pages URL: %s", valueOr(pages.HTMLURL, "pending"))
	} else {
		logger.Debug().Err(err).Msg("Pages status unavailable")
		p.Warn("Pages status: not configured or still deploying")
	}

	if count, err := b.forge.CountDiscussions(ctx, c.Owner, c.RepoName); err == nil {
		p.Success("Discussions: %d", count)
	} else {
		logger.Debug().Err(err).Msg("Discussions unavailable")
		p.Info("Discussions: available through the web interface")
	}

	return true
}

func (b *Bootstrapper) credential() string {
	if b.opts.RedactToken {
		return tokenPlaceholder
	}
	return b.opts.Token
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
