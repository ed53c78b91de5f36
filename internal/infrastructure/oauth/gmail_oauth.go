package oauth

import (
	"context"
	"fmt"
	"time"

	"inboxpert-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// GmailOAuth handles OAuth authentication with Gmail
type GmailOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGmailOAuth creates a Gmail OAuth handler with the read-only scope
func NewGmailOAuth(clientID, clientSecret, refreshToken string, logger logger.Logger) *GmailOAuth {
	return &GmailOAuth{
		config:       NewConfig(clientID, clientSecret, ""),
		refreshToken: refreshToken,
		logger:       logger,
	}
}

// NewGmailOAuthWithRedirect creates a handler for the interactive consent flow
func NewGmailOAuthWithRedirect(clientID, clientSecret, redirectURL string, logger logger.Logger) *GmailOAuth {
	return &GmailOAuth{
		config: NewConfig(clientID, clientSecret, redirectURL),
		logger: logger,
	}
}

// NewConfig builds the OAuth client config used by the service and the token helper
func NewConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}
}

// GetTokenSource returns a caching token source that refreshes from the stored refresh token
func (o *GmailOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return &loggingTokenSource{
		source: o.config.TokenSource(ctx, token),
		logger: o.logger,
	}
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *GmailOAuth) GenerateAuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges an authorization code for a token
func (o *GmailOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token returned; revoke the app's access and retry")
	}
	return token, nil
}

// loggingTokenSource logs failed token refreshes
type loggingTokenSource struct {
	source oauth2.TokenSource
	logger logger.Logger
}

func (s *loggingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		s.logger.Error("Failed to obtain Gmail access token", "error", err)
		return nil, err
	}
	return token, nil
}
