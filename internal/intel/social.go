package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	maxListedRepos   = 10
)

// SocialModule looks for the organization behind a domain on GitHub and the
// common social platforms. Everything here is a best-effort public probe;
// a missing profile is data, not an error.
type SocialModule struct {
	client    *http.Client
	githubAPI string
}

type SocialOpt func(*SocialModule)

// WithGitHubAPI overrides the GitHub API base URL.
func WithGitHubAPI(base string) SocialOpt {
	return func(m *SocialModule) {
		if base != "" {
			m.githubAPI = strings.TrimSuffix(base, "/")
		}
	}
}

func WithSocialHTTPClient(c *http.Client) SocialOpt {
	return func(m *SocialModule) {
		if c != nil {
			m.client = c
		}
	}
}

func NewSocialModule(opts ...SocialOpt) *SocialModule {
	m := &SocialModule{
		client:    &http.Client{Timeout: 10 * time.Second},
		githubAPI: defaultGitHubAPI,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SocialModule) Name() string { return ModuleSocial }

func (m *SocialModule) Collect(ctx context.Context, target Target) (Payload, error) {
	// The bare organization handle is the label before the first dot.
	orgName := target.Value
	if idx := strings.Index(orgName, "."); idx > 0 {
		orgName = orgName[:idx]
	}

	payload := &SocialPayload{
		Target:    target.Value,
		Timestamp: time.Now().UTC(),
		GitHub: GitHubInfo{
			Repositories: []GitHubRepo{},
			Users:        []GitHubUser{},
		},
		SocialProfiles: map[string]string{},
	}

	m.scanGitHub(ctx, orgName, &payload.GitHub)
	payload.SocialProfiles = m.checkSocialProfiles(ctx, orgName)

	return payload, nil
}

// scanGitHub tries the handle as an organization first and falls back to a
// user account.
func (m *SocialModule) scanGitHub(ctx context.Context, orgName string, info *GitHubInfo) {
	var org struct {
		Name        string `json:"name"`
		Login       string `json:"login"`
		Description string `json:"description"`
		PublicRepos int    `json:"public_repos"`
		Followers   int    `json:"followers"`
		CreatedAt   string `json:"created_at"`
		HTMLURL     string `json:"html_url"`
	}

	if m.getJSON(ctx, fmt.Sprintf("%s/orgs/%s", m.githubAPI, orgName), &org) {
		info.Organization = &GitHubOrg{
			Name:        org.Name,
			Login:       org.Login,
			Description: org.Description,
			PublicRepos: org.PublicRepos,
			Followers:   org.Followers,
			CreatedAt:   org.CreatedAt,
			URL:         org.HTMLURL,
		}

		var repos []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Language    string `json:"language"`
			Stars       int    `json:"stargazers_count"`
			Forks       int    `json:"forks_count"`
			HTMLURL     string `json:"html_url"`
		}
		if m.getJSON(ctx, fmt.Sprintf("%s/orgs/%s/repos", m.githubAPI, orgName), &repos) {
			if len(repos) > maxListedRepos {
				repos = repos[:maxListedRepos]
			}
			for _, repo := range repos {
				info.Repositories = append(info.Repositories, GitHubRepo{
					Name:        repo.Name,
					Description: repo.Description,
					Language:    repo.Language,
					Stars:       repo.Stars,
					Forks:       repo.Forks,
					URL:         repo.HTMLURL,
				})
			}
		}
		return
	}

	var user struct {
		Login       string `json:"login"`
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		PublicRepos int    `json:"public_repos"`
		Followers   int    `json:"followers"`
		HTMLURL     string `json:"html_url"`
	}
	if m.getJSON(ctx, fmt.Sprintf("%s/users/%s", m.githubAPI, orgName), &user) {
		info.Users = append(info.Users, GitHubUser{
			Login:       user.Login,
			Name:        user.Name,
			Bio:         user.Bio,
			PublicRepos: user.PublicRepos,
			Followers:   user.Followers,
			URL:         user.HTMLURL,
		})
	}
}

func (m *SocialModule) getJSON(ctx context.Context, url string, out interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	return json.NewDecoder(resp.Body).Decode(out) == nil
}

func (m *SocialModule) checkSocialProfiles(ctx context.Context, orgName string) map[string]string {
	candidates := map[string]string{
		"twitter":  fmt.Sprintf("https://twitter.com/%s", orgName),
		"linkedin": fmt.Sprintf("https://www.linkedin.com/company/%s", orgName),
		"facebook": fmt.Sprintf("https://www.facebook.com/%s", orgName),
	}

	profiles := make(map[string]string, len(candidates))
	for platform, url := range candidates {
		profiles[platform] = ""
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		resp, err := m.client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			profiles[platform] = url
		}
	}
	return profiles
}
