package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/kballard/go-shellquote"
	"github.com/savaki/forge-bootstrap/internal/config"
	"github.com/savaki/forge-bootstrap/internal/services"
)

const tokenPlaceholder = "${GITHUB_TOKEN}"

const deployScript = `#!/bin/bash

# {{.RepoName}} - deployment script
# Usage: bash {{.ScriptName}}

set -e

echo "🚀 Deploying {{.RepoName}}..."

# clone the repository
git clone {{quote .CloneURL}} temp_repo
cd temp_repo

# copy files
echo "📁 Copying files..."
cp -r {{quote .WebsiteDir}}/. .
cp -r {{quote .DocsDir}} .
cp -r {{quote .TemplatesDir}} .
{{- range .ExtraFiles}}
if [ -e {{quote .}} ]; then cp {{quote .}} .; fi
{{- end}}

# commit
echo "💾 Committing changes..."
git add .
git config user.name {{quote .AuthorName}}
git config user.email {{quote .AuthorEmail}}
git commit -m {{quote .CommitMessage}}
git push origin {{quote .Branch}}

echo "✅ Deployment complete!"
echo "📱 Website: {{.SiteURL}}"
`

var deployScriptTemplate = template.Must(template.New(DeployScriptName).
	Funcs(template.FuncMap{
		"quote": func(s string) string { return shellquote.Join(s) },
	}).
	Parse(deployScript))

type deployScriptData struct {
	config.Community
	ScriptName    string
	CloneURL      string
	CommitMessage string
	SiteURL       string
}

func commitMessage(repoName string) string {
	return fmt.Sprintf("Initialize %s", repoName)
}

func renderDeployScript(c config.Community, repo *services.Repository) ([]byte, error) {
	data := deployScriptData{
		Community:     c,
		ScriptName:    DeployScriptName,
		CloneURL:      repo.CloneURL,
		CommitMessage: commitMessage(c.RepoName),
		SiteURL:       c.SiteURL(),
	}

	var buf bytes.Buffer
	if err := deployScriptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", DeployScriptName, err)
	}
	return buf.Bytes(), nil
}

// APICall describes an HTTP request for the operator to replay.
type APICall struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Data    FoundingPost      `json:"data"`
}

// FoundingPost is the body of the create discussion call.
type FoundingPost struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

func renderFoundingPost(c config.Community, apiBaseURL, credential, body string) ([]byte, error) {
	call := APICall{
		Method: "POST",
		URL:    fmt.Sprintf("%srepos/%s/%s/discussions", apiBaseURL, c.Owner, c.RepoName),
		Headers: map[string]string{
			"Authorization": "token " + credential,
			"Accept":        "application/vnd.github.v3+json",
		},
		Data: FoundingPost{
			Title:    fmt.Sprintf("[%s] %s is officially open!", c.AnnouncementCategory, c.RepoName),
			Body:     body,
			Category: c.AnnouncementCategory,
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(call); err != nil {
		return nil, fmt.Errorf("failed to encode founding post: %w", err)
	}
	return buf.Bytes(), nil
}
