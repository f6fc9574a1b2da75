package msauth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"golang.org/x/oauth2"

	"github.com/yurkol/mailsweep/internal/logging"
)

// PublicClient is the subset of the MSAL public-client surface the
// provider uses. It exists so tests can substitute a fake identity
// provider without network access.
type PublicClient interface {
	Accounts(ctx context.Context) ([]public.Account, error)
	AcquireTokenSilent(ctx context.Context, scopes []string, opts ...public.AcquireSilentOption) (public.AuthResult, error)
	AcquireTokenByUsernamePassword(ctx context.Context, scopes []string, username, password string, opts ...public.AcquireByUsernamePasswordOption) (public.AuthResult, error)
}

// Provider obtains bearer tokens for a single delegated identity.
// Safe for sequential reuse; the MSAL client keeps its own in-memory
// account cache so repeated Acquire calls stay silent while the token
// is valid.
type Provider struct {
	cred   Credential
	app    PublicClient
	scopes []string
	logger *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for acquisition events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithApplication substitutes the MSAL public client. Intended for
// tests and for callers that configure their own token cache.
func WithApplication(app PublicClient) Option {
	return func(p *Provider) {
		p.app = app
	}
}

// NewProvider creates a token provider for the given credential.
// A credential with any empty field fails with *AuthError before any
// network traffic happens.
func NewProvider(cred Credential, opts ...Option) (*Provider, error) {
	if err := cred.Validate(); err != nil {
		return nil, &AuthError{Op: "configure", Username: cred.Username, Err: err}
	}

	p := &Provider{
		cred:   cred,
		scopes: DefaultScopes,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.app == nil {
		app, err := public.New(cred.ClientID, public.WithAuthority(cred.Authority()))
		if err != nil {
			return nil, &AuthError{Op: "configure", Username: cred.Username, Err: err}
		}
		p.app = app
	}

	return p, nil
}

// Username returns the subject identity this provider acquires tokens for.
func (p *Provider) Username() string {
	return p.cred.Username
}

// Acquire obtains a bearer token for the Graph default scope.
// It first attempts silent acquisition from the client's account cache
// and falls back to the ROPC exchange on a miss. When neither path
// yields a response containing an access token it fails with
// *AuthError; callers must not proceed without a token.
func (p *Provider) Acquire(ctx context.Context) (*oauth2.Token, error) {
	accounts, err := p.app.Accounts(ctx)
	if err == nil && len(accounts) > 0 {
		result, err := p.app.AcquireTokenSilent(ctx, p.scopes, public.WithSilentAccount(accounts[0]))
		if err == nil && result.AccessToken != "" {
			p.logger.Debug("token served from silent cache",
				logging.UserHash(p.cred.Username))
			return tokenFromResult(result), nil
		}
		p.logger.Debug("silent acquisition missed, falling back to ROPC",
			logging.UserHash(p.cred.Username), logging.Err(err))
	}

	result, err := p.app.AcquireTokenByUsernamePassword(ctx, p.scopes, p.cred.Username, p.cred.Password)
	if err != nil {
		return nil, &AuthError{Op: "ropc", Username: p.cred.Username, Err: err}
	}
	if result.AccessToken == "" {
		return nil, &AuthError{
			Op:       "ropc",
			Username: p.cred.Username,
			Err:      errors.New("exchange response contained no access token"),
		}
	}

	p.logger.Debug("token acquired via ROPC exchange",
		logging.UserHash(p.cred.Username),
		slog.String("token", logging.SanitizeToken(result.AccessToken)))
	return tokenFromResult(result), nil
}

// AccessToken is a convenience over Acquire for callers that only need
// the bearer string.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	token, err := p.Acquire(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func tokenFromResult(result public.AuthResult) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		Expiry:      result.ExpiresOn,
	}
}
