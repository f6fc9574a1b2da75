package msauth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider is the acquisition contract the rest of the application
// depends on. *Provider implements it; tests plug in fakes.
type TokenProvider interface {
	// Acquire obtains a bearer token, renewing it when necessary.
	Acquire(ctx context.Context) (*oauth2.Token, error)
}

// TokenSource adapts a TokenProvider to oauth2.TokenSource so an HTTP
// client can be built with oauth2.NewClient. The source is wrapped in
// oauth2.ReuseTokenSource: a token is reused until its expiry passes,
// then the provider is asked again, so no call is ever issued with an
// absent or expired token.
func TokenSource(ctx context.Context, provider TokenProvider) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &providerSource{ctx: ctx, provider: provider})
}

type providerSource struct {
	ctx      context.Context
	provider TokenProvider
}

func (s *providerSource) Token() (*oauth2.Token, error) {
	return s.provider.Acquire(s.ctx)
}
