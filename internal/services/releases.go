package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fax1015/mosu-cli/internal/shared"
)

const (
	githubAPIBaseURL   = "https://api.github.com"
	updateCheckTimeout = 15 * time.Second
)

// Release is the latest published release of the app.
type Release struct {
	Version string // Tag with any leading "v" stripped
	URL     string // Release page URL for the browser
}

// ReleaseService checks GitHub for newer published versions.
type ReleaseService struct {
	baseURL    string
	repo       string
	httpClient *http.Client
}

// NewReleaseService creates an update checker for the given "owner/name" repo
func NewReleaseService(repo string) *ReleaseService {
	return &ReleaseService{
		baseURL:    githubAPIBaseURL,
		repo:       repo,
		httpClient: &http.Client{Timeout: updateCheckTimeout},
	}
}

// SetHTTPClient overrides the HTTP client, used by tests
func (r *ReleaseService) SetHTTPClient(client *http.Client) {
	r.httpClient = client
}

// SetBaseURL overrides the API base URL, used by tests
func (r *ReleaseService) SetBaseURL(baseURL string) {
	r.baseURL = baseURL
}

// Latest fetches the most recent published release.
func (r *ReleaseService) Latest(ctx context.Context) (*Release, error) {
	if r.repo == "" {
		return nil, fmt.Errorf("%w: updates repo not configured", shared.ErrMissingConfig)
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", r.baseURL, r.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: release lookup returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode release response: %w", err)
	}
	if payload.TagName == "" {
		return nil, fmt.Errorf("%w: release has no tag", shared.ErrAPIRequest)
	}

	return &Release{
		Version: strings.TrimPrefix(payload.TagName, "v"),
		URL:     payload.HTMLURL,
	}, nil
}

// IsNewer reports whether the release version differs from current.
// Versions are compared as dotted integers; non-numeric segments compare
// lexically.
func (rel *Release) IsNewer(current string) bool {
	current = strings.TrimPrefix(current, "v")
	if current == "" || current == "dev" {
		return false
	}
	return compareVersions(rel.Version, current) > 0
}

func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv string
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av == bv {
			continue
		}
		an, aErr := parseSegment(av)
		bn, bErr := parseSegment(bv)
		if aErr == nil && bErr == nil {
			if an != bn {
				if an > bn {
					return 1
				}
				return -1
			}
			continue
		}
		if av > bv {
			return 1
		}
		return -1
	}
	return 0
}

func parseSegment(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
