package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const readOnlyScope = "https://www.googleapis.com/auth/youtube.readonly"

func newOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{readOnlyScope},
		Endpoint:     google.Endpoint,
	}
}

// tokenSaver persists every refreshed token so restarts do not repeat the device flow.
type tokenSaver struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	logger    *zap.Logger
	mu        sync.Mutex
}

func (ts *tokenSaver) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	newToken, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to refresh token")
	}

	if newToken.AccessToken != ts.token.AccessToken {
		ts.logger.Info("token refreshed", zap.String("file", ts.tokenFile))
		ts.token = newToken
		if err := saveToken(ts.tokenFile, newToken); err != nil {
			ts.logger.Warn("failed to save refreshed token", zap.Error(err))
		}
	}

	return newToken, nil
}

// getToken prefers a stored token with a refresh token, even an expired one,
// and only falls back to the device flow when none is usable.
func getToken(ctx context.Context, config *oauth2.Config, tokenFile string, logger *zap.Logger) (*oauth2.Token, error) {
	tok, err := tokenFromFile(tokenFile)
	if err == nil {
		if tok.RefreshToken != "" {
			logger.Info("loaded token from file", zap.Time("expiry", tok.Expiry))
			return tok, nil
		}
		if tok.Valid() {
			return tok, nil
		}
	}

	logger.Info("no usable token on disk, starting device authorization")
	tok, err = getTokenWithDeviceFlow(ctx, config)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			logger.Error("device authorization rejected",
				zap.String("status", retrieveErr.Response.Status),
				zap.String("body", strings.TrimSpace(string(retrieveErr.Body))))
		}
		return nil, goerr.Wrap(err, "device authorization failed; the OAuth client must be of type 'TVs and Limited Input devices' with the YouTube Data API v3 enabled")
	}

	if err := saveToken(tokenFile, tok); err != nil {
		logger.Warn("failed to save token", zap.Error(err))
	}
	return tok, nil
}

func getTokenWithDeviceFlow(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	resp, err := config.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, goerr.Wrap(err, "unable to start device authorization")
	}

	rule := strings.Repeat("=", 80)
	fmt.Printf("\n%s\nYOUTUBE DEVICE AUTHORIZATION REQUIRED\n%s\n", rule, rule)
	fmt.Printf("1. Visit %s in your browser (any device works).\n", resp.VerificationURI)
	fmt.Printf("2. Enter this code when prompted: %s\n\n", resp.UserCode)
	if completeURL := strings.TrimSpace(resp.VerificationURIComplete); completeURL != "" {
		fmt.Printf("   Or open directly: %s\n\n", completeURL)
	}
	fmt.Printf("Waiting for authorization to complete... (Ctrl+C to cancel)\n")

	tok, err := config.DeviceAccessToken(ctx, resp, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, goerr.Wrap(err, "device authorization did not complete")
	}
	fmt.Printf("Authorization successful.\n%s\n\n", rule)
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token", goerr.V("file", file))
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return goerr.Wrap(err, "unable to create token directory", goerr.V("dir", dir))
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return goerr.Wrap(err, "unable to cache oauth token", goerr.V("path", path))
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return goerr.Wrap(err, "failed to encode oauth token")
	}
	return nil
}
