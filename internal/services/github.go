package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	DefaultGitHubAPIURL  = "https://api.github.com/"
	DefaultGitHubTimeout = 30 * time.Second
	userAgent            = "forge-bootstrap"
)

// GitHubService is the forge client. Every call is authenticated with the
// personal access token supplied at construction.
type GitHubService struct {
	client *github.Client
}

// Repository is the handle kept for the remainder of a run once the
// repository has been created or fetched.
type Repository struct {
	FullName string
	HTMLURL  string
	CloneURL string
	Private  bool
}

// PagesStatus is the subset of the pages resource reported by the status check.
type PagesStatus struct {
	Status  string
	HTMLURL string
}

// CreateRepositoryInput describes a new public repository. Issues, projects,
// wiki and downloads are always disabled.
type CreateRepositoryInput struct {
	Name        string
	Description string
	Private     bool
	AutoInit    bool
}

// APIError is returned for any non-2xx forge response.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is the "already exists" response of the
// create repository call.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

// StatusCode returns the HTTP status attached to err, or 0 when err did not
// come from a forge response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message returns the forge supplied message when present, otherwise err's text.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

type githubOptions struct {
	baseURL string
	timeout time.Duration
}

// GitHubOption customizes the forge client.
type GitHubOption func(*githubOptions)

// WithBaseURL points the client at a different API root, e.g. GitHub Enterprise
// or a test server.
func WithBaseURL(baseURL string) GitHubOption {
	return func(o *githubOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout bounds the lifetime of every request.
func WithTimeout(d time.Duration) GitHubOption {
	return func(o *githubOptions) {
		o.timeout = d
	}
}

func NewGitHubService(token string, opts ...GitHubOption) (*GitHubService, error) {
	o := githubOptions{
		baseURL: DefaultGitHubAPIURL,
		timeout: DefaultGitHubTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	httpClient.Timeout = o.timeout

	client := github.NewClient(httpClient)
	client.UserAgent = userAgent

	if o.baseURL != DefaultGitHubAPIURL {
		baseURL := o.baseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", o.baseURL, err)
		}
		client.BaseURL = u
	}

	return &GitHubService{client: client}, nil
}

// Do issues an API request relative to the base URL. body, when not nil, is
// sent as JSON; the response is decoded into v when v is not nil.
func (g *GitHubService) Do(ctx context.Context, method, path string, body, v any) error {
	req, err := g.client.NewRequest(method, strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if _, err := g.client.Do(ctx, req, v); err != nil {
		return toAPIError(err)
	}
	return nil
}

func (g *GitHubService) Post(ctx context.Context, path string, body, v any) error {
	return g.Do(ctx, http.MethodPost, path, body, v)
}

func (g *GitHubService) Get(ctx context.Context, path string, v any) error {
	return g.Do(ctx, http.MethodGet, path, nil, v)
}

func (g *GitHubService) Put(ctx context.Context, path string, body, v any) error {
	return g.Do(ctx, http.MethodPut, path, body, v)
}

// CreateRepository creates a repository for the authenticated user.
func (g *GitHubService) CreateRepository(ctx context.Context, input CreateRepositoryInput) (*Repository, error) {
	request := &github.Repository{
		Name:         github.String(input.Name),
		Description:  github.String(input.Description),
		Private:      github.Bool(input.Private),
		AutoInit:     github.Bool(input.AutoInit),
		HasIssues:    github.Bool(false),
		HasProjects:  github.Bool(false),
		HasWiki:      github.Bool(false),
		HasDownloads: github.Bool(false),
	}

	var repo github.Repository
	if err := g.Post(ctx, "user/repos", request, &repo); err != nil {
		return nil, fmt.Errorf("failed to create repository %s: %w", input.Name, err)
	}
	return newRepository(&repo), nil
}

// GetRepository fetches an existing repository by owner and name.
func (g *GitHubService) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var r github.Repository
	if err := g.Get(ctx, repoPath(owner, repo), &r); err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	return newRepository(&r), nil
}

// ConfigurePages publishes the given branch and path with GitHub Pages.
func (g *GitHubService) ConfigurePages(ctx context.Context, owner, repo, branch, path string) error {
	request := struct {
		Source *github.PagesSource `json:"source"`
	}{
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String(path),
		},
	}

	if err := g.Put(ctx, repoPath(owner, repo)+"/pages", request, nil); err != nil {
		return fmt.Errorf("failed to configure pages for %s/%s: %w", owner, repo, err)
	}
	return nil
}

// GetPages returns the pages deployment status.
func (g *GitHubService) GetPages(ctx context.Context, owner, repo string) (*PagesStatus, error) {
	var pages github.Pages
	if err := g.Get(ctx, repoPath(owner, repo)+"/pages", &pages); err != nil {
		return nil, fmt.Errorf("failed to get pages for %s/%s: %w", owner, repo, err)
	}
	return &PagesStatus{
		Status:  pages.GetStatus(),
		HTMLURL: pages.GetHTMLURL(),
	}, nil
}

// CountDiscussions returns the number of discussions on the first page of the
// repository's discussion list.
func (g *GitHubService) CountDiscussions(ctx context.Context, owner, repo string) (int, error) {
	var discussions []json.RawMessage
	if err := g.Get(ctx, repoPath(owner, repo)+"/discussions", &discussions); err != nil {
		return 0, fmt.Errorf("failed to list discussions for %s/%s: %w", owner, repo, err)
	}
	return len(discussions), nil
}

func repoPath(owner, repo string) string {
	return fmt.Sprintf("repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
}

func newRepository(r *github.Repository) *Repository {
	return &Repository{
		FullName: r.GetFullName(),
		HTMLURL:  r.GetHTMLURL(),
		CloneURL: r.GetCloneURL(),
		Private:  r.GetPrivate(),
	}
}

func toAPIError(err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return &APIError{StatusCode: errResp.Response.StatusCode, Message: errResp.Message, Err: err}
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &APIError{StatusCode: rateErr.Response.StatusCode, Message: rateErr.Message, Err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return &APIError{StatusCode: abuseErr.Response.StatusCode, Message: abuseErr.Message, Err: err}
	}

	return err
}
