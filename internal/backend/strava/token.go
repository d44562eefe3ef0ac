package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// LoadToken reads a token saved by SaveToken.
// A token without a refresh token is rejected since it cannot be renewed.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", path, err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s has no refresh token (run: stravasheet login)", path)
	}

	return &token, nil
}

// SaveToken saves an OAuth token to a file with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// savingTokenSource writes the token back to path whenever Strava rotates
// the refresh token, since the previous one stops working.
type savingTokenSource struct {
	mu           sync.Mutex
	base         oauth2.TokenSource
	path         string
	refreshToken string
}

// SavingTokenSource returns a token source seeded with the refresh token of
// token that keeps the token file at path current.
func SavingTokenSource(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token, path string) oauth2.TokenSource {
	return &savingTokenSource{
		base:         oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken}),
		path:         path,
		refreshToken: token.RefreshToken,
	}
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.RefreshToken == "" || token.RefreshToken == s.refreshToken {
		return token, nil
	}

	if err := SaveToken(s.path, token); err != nil {
		return nil, fmt.Errorf("failed to save rotated refresh token: %w", err)
	}
	s.refreshToken = token.RefreshToken

	return token, nil
}
