package intel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reconai/pkg/testutil"
)

// profileTransport answers the social profile probes without leaving the
// process. Only twitter exists in this fixture.
type profileTransport struct{}

func (profileTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	status := http.StatusNotFound
	if strings.Contains(req.URL.Host, "twitter.com") {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       http.NoBody,
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestSocialModule_Organization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orgs/acme":
			w.Write([]byte(`{"name":"Acme Corp","login":"acme","public_repos":42,"followers":100,"html_url":"https://github.com/acme"}`))
		case "/orgs/acme/repos":
			w.Write([]byte(`[{"name":"widget","language":"Go","stargazers_count":7,"html_url":"https://github.com/acme/widget"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	module := NewSocialModule(WithGitHubAPI(server.URL))
	ctx, cancel := testutil.WithTimeout(t, 5*time.Second)
	defer cancel()

	payload, err := module.Collect(ctx, Target{Value: "acme.example.com"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	social := payload.(*SocialPayload)
	org := social.GitHub.Organization
	if org == nil {
		t.Fatal("Expected organization info")
	}
	if org.Name != "Acme Corp" || org.PublicRepos != 42 {
		t.Errorf("Unexpected org: %+v", org)
	}
	if len(social.GitHub.Repositories) != 1 || social.GitHub.Repositories[0].Name != "widget" {
		t.Errorf("Unexpected repos: %+v", social.GitHub.Repositories)
	}
}

func TestSocialModule_UserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat":
			w.Write([]byte(`{"login":"octocat","name":"The Octocat","public_repos":8,"html_url":"https://github.com/octocat"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	module := NewSocialModule(WithGitHubAPI(server.URL))

	payload, err := module.Collect(context.Background(), Target{Value: "octocat.io"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	social := payload.(*SocialPayload)
	if social.GitHub.Organization != nil {
		t.Error("No organization expected")
	}
	if len(social.GitHub.Users) != 1 || social.GitHub.Users[0].Login != "octocat" {
		t.Errorf("Unexpected users: %+v", social.GitHub.Users)
	}
}

func TestSocialModule_ProfileProbes(t *testing.T) {
	// The stub transport answers every request, GitHub probes included.
	module := NewSocialModule(
		WithSocialHTTPClient(&http.Client{Transport: profileTransport{}}),
	)

	payload, err := module.Collect(context.Background(), Target{Value: "acme.example.com"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	social := payload.(*SocialPayload)
	if social.SocialProfiles["twitter"] != "https://twitter.com/acme" {
		t.Errorf("Expected twitter profile, got %q", social.SocialProfiles["twitter"])
	}
	for _, platform := range []string{"linkedin", "facebook"} {
		if social.SocialProfiles[platform] != "" {
			t.Errorf("Expected empty %s profile, got %q", platform, social.SocialProfiles[platform])
		}
	}
}
