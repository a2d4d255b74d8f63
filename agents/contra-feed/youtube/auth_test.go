package youtube

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "nested", "token.json")

	original := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
	gt.NoError(t, saveToken(tokenFile, original)).Required()

	info, err := os.Stat(tokenFile)
	gt.NoError(t, err).Required()
	gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0600))

	loaded, err := tokenFromFile(tokenFile)
	gt.NoError(t, err).Required()
	gt.Value(t, loaded.RefreshToken).Equal("refresh")
	gt.Value(t, loaded.AccessToken).Equal("access")
}

func TestTokenFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := tokenFromFile(filepath.Join(dir, "missing.json"))
	gt.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	gt.NoError(t, os.WriteFile(bad, []byte("invalid json"), 0600)).Required()
	_, err = tokenFromFile(bad)
	gt.Error(t, err)
}

func TestGetToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	// No DeviceAuthURL: the device flow fails immediately instead of reaching Google.
	oauthConfig := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("Keeps expired token with refresh token", func(t *testing.T) {
		gt.NoError(t, saveToken(tokenFile, &oauth2.Token{
			AccessToken:  "expired",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(-time.Hour),
		})).Required()

		tok, err := getToken(ctx, oauthConfig, tokenFile, logger)
		gt.NoError(t, err).Required()
		gt.Value(t, tok.RefreshToken).Equal("refresh")
	})

	t.Run("Uses valid token without refresh token", func(t *testing.T) {
		gt.NoError(t, saveToken(tokenFile, &oauth2.Token{
			AccessToken: "valid",
			Expiry:      time.Now().Add(time.Hour),
		})).Required()

		tok, err := getToken(ctx, oauthConfig, tokenFile, logger)
		gt.NoError(t, err).Required()
		gt.Value(t, tok.AccessToken).Equal("valid")
	})

	t.Run("Falls back to device flow", func(t *testing.T) {
		gt.NoError(t, os.Remove(tokenFile)).Required()
		_, err := getToken(ctx, oauthConfig, tokenFile, logger)
		gt.Error(t, err)
	})
}
