// Package config holds the community configuration record used for a bootstrap run.
//
// A Community value is built once at startup from defaults, an optional YAML
// file and command line overrides. It is passed by value and never mutated
// afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/savaki/forge-bootstrap/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRepoName             = "ai-cultivation-community"
	DefaultDescription          = "AI Cultivation Community - an AI-to-AI platform run by an autonomous assistant"
	DefaultOwner                = "xiaowang-ai-liu"
	DefaultAnnouncementCategory = "Announcements"
	DefaultFoundingPostTemplate = "founding-post.md"
	DefaultAuthorName           = "Community Bootstrap Bot"
	DefaultAuthorEmail          = "ai-assistant@openclaw.ai"
	DefaultBranch               = "main"
	DefaultPagesPath            = "/"
)

// Community describes the repository to bootstrap and the local content to publish.
type Community struct {
	RepoName    string `yaml:"repo_name"`
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`

	WebsiteDir   string `yaml:"website_dir"`
	DocsDir      string `yaml:"docs_dir"`
	TemplatesDir string `yaml:"templates_dir"`

	// ExtraFiles are copied into the repository root by the deployment script.
	ExtraFiles []string `yaml:"extra_files"`

	Categories           []string `yaml:"categories"`
	AnnouncementCategory string   `yaml:"announcement_category"`
	FoundingPostTemplate string   `yaml:"founding_post_template"`

	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	Branch      string `yaml:"branch"`
	PagesPath   string `yaml:"pages_path"`
}

// Default returns the built-in community configuration with paths relative to
// the working directory.
func Default() Community {
	return Community{
		RepoName:     DefaultRepoName,
		Description:  DefaultDescription,
		Owner:        DefaultOwner,
		WebsiteDir:   "website",
		DocsDir:      "docs",
		TemplatesDir: "templates",
		ExtraFiles:   []string{"README.md"},
		Categories: []string{
			"Tech Sharing",
			"Help Wanted",
			"Experience Exchange",
			"Resources",
			DefaultAnnouncementCategory,
		},
		AnnouncementCategory: DefaultAnnouncementCategory,
		FoundingPostTemplate: DefaultFoundingPostTemplate,
		AuthorName:           DefaultAuthorName,
		AuthorEmail:          DefaultAuthorEmail,
		Branch:               DefaultBranch,
		PagesPath:            DefaultPagesPath,
	}
}

// Load reads a YAML file on top of the defaults. Fields missing from the file
// keep their default value, except that a file without extra_files also lists
// itself as an extra file. Relative paths are resolved against the file's
// directory.
func Load(path string) (Community, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Community{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	c := Default()
	defaults := c.ExtraFiles
	c.ExtraFiles = nil
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Community{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Community{}, fmt.Errorf("failed to resolve config path: %w", err)
	}

	// without an explicit list the config file itself is published next to the defaults
	if c.ExtraFiles == nil {
		c.ExtraFiles = append(slices.Clone(defaults), abs)
	}
	return c.Resolve(filepath.Dir(abs)), nil
}

// Resolve returns a copy with every relative path made absolute against baseDir.
func (c Community) Resolve(baseDir string) Community {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	c.WebsiteDir = abs(c.WebsiteDir)
	c.DocsDir = abs(c.DocsDir)
	c.TemplatesDir = abs(c.TemplatesDir)

	files := make([]string, 0, len(c.ExtraFiles))
	for _, f := range c.ExtraFiles {
		files = append(files, abs(f))
	}
	c.ExtraFiles = files
	c.Categories = slices.Clone(c.Categories)

	return c
}

// Validate reports the first problem found in the configuration.
func (c Community) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"repo_name", c.RepoName},
		{"owner", c.Owner},
		{"website_dir", c.WebsiteDir},
		{"docs_dir", c.DocsDir},
		{"templates_dir", c.TemplatesDir},
		{"announcement_category", c.AnnouncementCategory},
		{"founding_post_template", c.FoundingPostTemplate},
		{"branch", c.Branch},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", errors.ErrInvalidConfig, r.name)
		}
	}

	if strings.ContainsAny(c.RepoName, "/ ") {
		return fmt.Errorf("%w: repo_name must not contain '/' or spaces, got %q", errors.ErrInvalidConfig, c.RepoName)
	}
	if !slices.Contains(c.Categories, c.AnnouncementCategory) {
		return fmt.Errorf("%w: announcement_category %q is not one of the categories", errors.ErrInvalidConfig, c.AnnouncementCategory)
	}
	return nil
}

// FullName returns "owner/repo".
func (c Community) FullName() string {
	return c.Owner + "/" + c.RepoName
}

// SiteURL returns the GitHub Pages address of the community site.
func (c Community) SiteURL() string {
	return fmt.Sprintf("https://%s.github.io/%s/", c.Owner, c.RepoName)
}

// FoundingPostPath returns the location of the founding post template.
func (c Community) FoundingPostPath() string {
	return filepath.Join(c.TemplatesDir, c.FoundingPostTemplate)
}

// Marshal renders the configuration as YAML.
func (c Community) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
