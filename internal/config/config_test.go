package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/savaki/forge-bootstrap/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "xiaowang-ai-liu/ai-cultivation-community", c.FullName())
	assert.Equal(t, "https://xiaowang-ai-liu.github.io/ai-cultivation-community/", c.SiteURL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Community)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Community) {},
		},
		{
			name:    "missing repo name",
			mutate:  func(c *Community) { c.RepoName = "" },
			wantErr: true,
		},
		{
			name:    "missing owner",
			mutate:  func(c *Community) { c.Owner = "  " },
			wantErr: true,
		},
		{
			name:    "repo name with slash",
			mutate:  func(c *Community) { c.RepoName = "alice/demo" },
			wantErr: true,
		},
		{
			name:    "announcement category not listed",
			mutate:  func(c *Community) { c.AnnouncementCategory = "News" },
			wantErr: true,
		},
		{
			name:    "missing branch",
			mutate:  func(c *Community) { c.Branch = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_OverridesDefaultsAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "community.yaml")
	content := `
repo_name: demo
owner: alice
website_dir: site
extra_files:
  - README.md
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", c.RepoName)
	assert.Equal(t, "alice", c.Owner)
	assert.Equal(t, DefaultDescription, c.Description)
	assert.Equal(t, filepath.Join(dir, "site"), c.WebsiteDir)
	assert.Equal(t, filepath.Join(dir, "docs"), c.DocsDir)
	assert.Equal(t, []string{filepath.Join(dir, "README.md")}, c.ExtraFiles)
	assert.Equal(t, filepath.Join(dir, "templates", DefaultFoundingPostTemplate), c.FoundingPostPath())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("repo_name: [unterminated"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestResolve_KeepsAbsolutePaths(t *testing.T) {
	c := Default()
	c.DocsDir = "/srv/docs"

	resolved := c.Resolve("/base")
	assert.Equal(t, "/srv/docs", resolved.DocsDir)
	assert.Equal(t, "/base/website", resolved.WebsiteDir)

	// original is untouched
	assert.Equal(t, "website", c.WebsiteDir)
}

func TestMarshal(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "repo_name: ai-cultivation-community")
	assert.Contains(t, string(data), "announcement_category: Announcements")
}

func TestLoad_ListsConfigFileAsExtraFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mycommunity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repo_name: demo\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "README.md"), path}, c.ExtraFiles)
	for _, f := range c.ExtraFiles {
		assert.NotEqual(t, "community.yaml", filepath.Base(f))
	}
}

func TestDefault_ExtraFiles(t *testing.T) {
	assert.Equal(t, []string{"README.md"}, Default().ExtraFiles)
}
