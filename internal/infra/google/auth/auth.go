// Package auth provides OAuth2 credentials for the Drive and Docs APIs.
//
// Tokens are cached in a JSON file so the interactive consent step only runs
// once per machine.
package auth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"
)

// Scopes requested for traversal, reading and writing documents.
var Scopes = []string{
	driveapi.DriveScope,
	docsapi.DocumentsScope,
}

// Provider hands out an authorized HTTP client.
type Provider struct {
	oauthCfg  *oauth2.Config
	tokenFile string
	in        io.Reader
	out       io.Writer
}

// NewProvider reads the OAuth client secrets file.
func NewProvider(credentialsFile, tokenFile string) (*Provider, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return &Provider{
		oauthCfg:  oauthCfg,
		tokenFile: tokenFile,
		in:        os.Stdin,
		out:       os.Stderr,
	}, nil
}

// Client returns an HTTP client that refreshes its token as needed.
// A missing or unreadable token triggers the consent flow.
func (p *Provider) Client(ctx context.Context) (*http.Client, error) {
	tok, err := LoadToken(p.tokenFile)
	if err != nil {
		slog.Info("No cached token, starting authorization", "token_file", p.tokenFile)
		tok, err = p.authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(p.tokenFile, tok); err != nil {
			return nil, err
		}
	}

	ts := &savingTokenSource{
		base: p.oauthCfg.TokenSource(ctx, tok),
		last: tok,
		path: p.tokenFile,
	}
	return oauth2.NewClient(ctx, ts), nil
}

func (p *Provider) authorize(ctx context.Context) (*oauth2.Token, error) {
	authURL := p.oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(p.out, "Open the following link in your browser, then paste the authorization code:\n%v\n> ", authURL)

	code, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && code == "" {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	tok, err := p.oauthCfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

// LoadToken reads a cached token.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return tok, nil
}

// SaveToken writes a token to path, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(tok)
}

// savingTokenSource persists refreshed tokens back to the cache file.
type savingTokenSource struct {
	base oauth2.TokenSource
	last *oauth2.Token
	path string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := SaveToken(s.path, tok); err != nil {
			slog.Warn("Failed to persist refreshed token", "error", err)
		}
		s.last = tok
	}
	return tok, nil
}
