package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/fax1015/mosu-cli/internal/shared"
)

const osuWebBaseURL = "https://osu.ppy.sh"

// Profile is the subset of an osu! user profile the mapper command shows.
type Profile struct {
	ID                int
	Username          string
	PreviousUsernames []string
	Country           string
	MapsetCounts      MapsetCounts
}

// MapsetCounts breaks down a user's uploaded beatmap sets by status.
type MapsetCounts struct {
	Ranked    int
	Loved     int
	Pending   int
	Graveyard int
}

// OsuWebService fetches mapper profiles by scraping the public web pages.
//
// Profile pages embed the full user JSON in a .js-react[data-initial-data]
// attribute, so no API credentials are required. Requests go through a rate
// limiter shared across calls.
type OsuWebService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOsuWebService creates a profile scraper with a polite request rate
func NewOsuWebService() *OsuWebService {
	return &OsuWebService{
		baseURL:    osuWebBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// SetHTTPClient overrides the HTTP client, used by tests
func (o *OsuWebService) SetHTTPClient(client *http.Client) {
	o.httpClient = client
}

// SetBaseURL overrides the osu! web base URL, used by tests
func (o *OsuWebService) SetBaseURL(baseURL string) {
	o.baseURL = baseURL
}

// NormalizeUserRef extracts a user id or username from a profile URL, or
// returns the input unchanged when it is already a bare id or name.
func NormalizeUserRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty user reference", shared.ErrInvalidArgument)
	}
	if !strings.Contains(ref, "/") {
		return ref, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if (part == "users" || part == "u") && i+1 < len(parts) {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("%w: no user id in %s", shared.ErrInvalidArgument, ref)
}

// Lookup fetches and decodes the profile page for a user id or username.
func (o *OsuWebService) Lookup(ctx context.Context, ref string) (*Profile, error) {
	userRef, err := NormalizeUserRef(ref)
	if err != nil {
		return nil, err
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf("%s/users/%s", o.baseURL, url.PathEscape(userRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, userRef)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile fetch returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	data, ok := doc.Find(".js-react[data-initial-data]").Attr("data-initial-data")
	if !ok || data == "" {
		return nil, fmt.Errorf("%w: profile page has no embedded data", shared.ErrUserNotFound)
	}

	return decodeProfile(data)
}

func decodeProfile(data string) (*Profile, error) {
	var payload struct {
		User struct {
			ID                int      `json:"id"`
			Username          string   `json:"username"`
			PreviousUsernames []string `json:"previous_usernames"`
			Country           struct {
				Name string `json:"name"`
			} `json:"country"`
			RankedCount    int `json:"ranked_beatmapset_count"`
			LovedCount     int `json:"loved_beatmapset_count"`
			PendingCount   int `json:"pending_beatmapset_count"`
			GraveyardCount int `json:"graveyard_beatmapset_count"`
		} `json:"user"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile data: %w", err)
	}
	if payload.User.ID == 0 {
		return nil, fmt.Errorf("%w: embedded data has no user", shared.ErrUserNotFound)
	}

	return &Profile{
		ID:                payload.User.ID,
		Username:          payload.User.Username,
		PreviousUsernames: dedupeNames(payload.User.PreviousUsernames, payload.User.Username),
		Country:           payload.User.Country.Name,
		MapsetCounts: MapsetCounts{
			Ranked:    payload.User.RankedCount,
			Loved:     payload.User.LovedCount,
			Pending:   payload.User.PendingCount,
			Graveyard: payload.User.GraveyardCount,
		},
	}, nil
}

// dedupeNames drops case-insensitive duplicates and the current username
// while keeping first-seen order.
func dedupeNames(names []string, current string) []string {
	seen := map[string]bool{strings.ToLower(current): true}
	var out []string
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// ProfileURL returns the canonical profile page for a user id.
func ProfileURL(id int) string {
	return fmt.Sprintf("%s/users/%s", osuWebBaseURL, strconv.Itoa(id))
}
