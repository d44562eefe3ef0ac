// Package strava implements service.ActivitySource using the Strava API.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"stravasheet/internal/config"
	"stravasheet/internal/service"
)

const (
	// BaseURL is the Strava API v3 root.
	BaseURL = "https://www.strava.com/api/v3"

	// AuthURL is the Strava authorization endpoint.
	AuthURL = "https://www.strava.com/oauth/authorize"

	// TokenURL is the Strava token exchange endpoint.
	TokenURL = "https://www.strava.com/oauth/token"

	// Scope grants read access to all activities, including private ones.
	Scope = "activity:read_all"

	// MaxPerPage is the largest page size the activities endpoint accepts.
	MaxPerPage = 200

	// APITimeout is the timeout for API calls.
	APITimeout = 30 * time.Second

	dateLayout = "2006-01-02"
)

// APIError is returned for non-2xx responses from the activities endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("strava: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("strava: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Unwrap lets callers test rejected credentials with errors.Is(err, service.ErrUnauthorized).
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return service.ErrUnauthorized
	}
	return nil
}

// Client implements service.ActivitySource.
type Client struct {
	http    *http.Client
	baseURL string
}

// OAuthConfig returns the oauth2 configuration for a Strava API application.
// Strava expects the client credentials in the form body.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{Scope},
	}
}

// New creates a Strava client from the environment credentials.
// The refresh token comes from STRAVA_REFRESH_TOKEN or, failing that,
// from the token file written by the login command. A token from the file
// is written back when Strava rotates it.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.RequireStrava(); err != nil {
		return nil, err
	}

	oauthConfig := OAuthConfig(cfg.Strava.ClientID, cfg.Strava.ClientSecret)

	if cfg.Strava.RefreshToken != "" {
		return NewWithRefreshToken(ctx, oauthConfig, cfg.Strava.RefreshToken, BaseURL), nil
	}

	token, err := LoadToken(cfg.TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (or run: stravasheet login)", config.ErrMissingEnv, config.EnvRefreshToken)
	}
	if err != nil {
		return nil, err
	}

	return NewWithTokenSource(ctx, SavingTokenSource(ctx, oauthConfig, token, cfg.TokenPath()), BaseURL), nil
}

// NewWithRefreshToken creates a client that exchanges refreshToken for an
// access token on first use and reuses it until it expires.
func NewWithRefreshToken(ctx context.Context, oauthConfig *oauth2.Config, refreshToken, baseURL string) *Client {
	return NewWithTokenSource(ctx, oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}), baseURL)
}

// NewWithTokenSource creates a client authorizing requests with tokenSource.
func NewWithTokenSource(ctx context.Context, tokenSource oauth2.TokenSource, baseURL string) *Client {
	return NewWithHTTPClient(oauth2.NewClient(ctx, tokenSource), baseURL)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// summaryActivity is the subset of the Strava SummaryActivity used here.
// Required fields are pointers so that absent keys can be told apart from zero values.
type summaryActivity struct {
	Name        *string `json:"name"`
	StartDate   *string `json:"start_date"`
	ElapsedTime *int    `json:"elapsed_time"`
	SportType   string  `json:"sport_type"`
	Distance    float64 `json:"distance"`
}

// RecentActivities returns up to count most recent activities of the authenticated athlete.
func (c *Client) RecentActivities(ctx context.Context, count int) ([]service.Activity, error) {
	if count < 1 || count > MaxPerPage {
		return nil, fmt.Errorf("activity count must be between 1 and %d: %d", MaxPerPage, count)
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(count))

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/athlete/activities?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	rq.Header.Set("Accept", "application/json")

	response, err := c.http.Do(rq)
	if err != nil {
		return nil, wrapError(err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return nil, &APIError{StatusCode: response.StatusCode, Body: string(body)}
	}

	var raw []summaryActivity
	if err := json.NewDecoder(response.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid activities response: %w", err)
	}

	activities := make([]service.Activity, 0, len(raw))
	for i, r := range raw {
		activity, err := parseActivity(r)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		activities = append(activities, activity)
	}

	return activities, nil
}

func parseActivity(r summaryActivity) (service.Activity, error) {
	switch {
	case r.Name == nil:
		return service.Activity{}, fmt.Errorf("missing field %q", "name")
	case r.StartDate == nil:
		return service.Activity{}, fmt.Errorf("missing field %q", "start_date")
	case r.ElapsedTime == nil:
		return service.Activity{}, fmt.Errorf("missing field %q", "elapsed_time")
	}

	date, _, _ := strings.Cut(*r.StartDate, "T")
	if _, err := time.Parse(dateLayout, date); err != nil {
		return service.Activity{}, fmt.Errorf("invalid start_date %q", *r.StartDate)
	}

	return service.Activity{
		Name:           *r.Name,
		Date:           date,
		ElapsedSeconds: *r.ElapsedTime,
		SportType:      r.SportType,
		DistanceMeters: r.Distance,
	}, nil
}

// wrapError marks token exchange failures as unauthorized.
func wrapError(err error) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		return fmt.Errorf("%w: token exchange failed: %v", service.ErrUnauthorized, retrieve)
	}

	// oauth2 reports a token response without access_token as a plain error
	if strings.Contains(err.Error(), "oauth2:") {
		return fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	return err
}
