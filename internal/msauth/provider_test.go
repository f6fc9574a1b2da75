package msauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApp is an in-memory stand-in for the MSAL public client.
type fakeApp struct {
	accounts     []public.Account
	accountsErr  error
	silentResult public.AuthResult
	silentErr    error
	ropcResult   public.AuthResult
	ropcErr      error

	silentCalls int
	ropcCalls   int
	gotUsername string
	gotPassword string
}

func (f *fakeApp) Accounts(ctx context.Context) ([]public.Account, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeApp) AcquireTokenSilent(ctx context.Context, scopes []string, opts ...public.AcquireSilentOption) (public.AuthResult, error) {
	f.silentCalls++
	return f.silentResult, f.silentErr
}

func (f *fakeApp) AcquireTokenByUsernamePassword(ctx context.Context, scopes []string, username, password string, opts ...public.AcquireByUsernamePasswordOption) (public.AuthResult, error) {
	f.ropcCalls++
	f.gotUsername = username
	f.gotPassword = password
	return f.ropcResult, f.ropcErr
}

func validCredential() Credential {
	return Credential{
		ClientID: "client-1",
		TenantID: "tenant-1",
		Username: "user@example.com",
		Password: "hunter2",
	}
}

func authResult(token string) public.AuthResult {
	return public.AuthResult{
		AccessToken: token,
		ExpiresOn:   time.Now().Add(time.Hour),
	}
}

func TestNewProviderRejectsIncompleteCredential(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Credential)
	}{
		{"empty client id", func(c *Credential) { c.ClientID = "" }},
		{"empty tenant id", func(c *Credential) { c.TenantID = "" }},
		{"empty username", func(c *Credential) { c.Username = "" }},
		{"empty password", func(c *Credential) { c.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := validCredential()
			tt.mutate(&cred)

			_, err := NewProvider(cred, WithApplication(&fakeApp{}))
			require.Error(t, err)

			var authErr *AuthError
			assert.ErrorAs(t, err, &authErr)
		})
	}
}

func TestAcquireSilentHit(t *testing.T) {
	app := &fakeApp{
		accounts:     []public.Account{{HomeAccountID: "acc-1"}},
		silentResult: authResult("cached-token"),
	}

	provider, err := NewProvider(validCredential(), WithApplication(app))
	require.NoError(t, err)

	token, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached-token", token.AccessToken)
	assert.Equal(t, 1, app.silentCalls)
	assert.Equal(t, 0, app.ropcCalls, "silent hit must not trigger the ROPC exchange")
}

func TestAcquireFallsBackToROPC(t *testing.T) {
	tests := []struct {
		name string
		app  *fakeApp
	}{
		{
			name: "no cached accounts",
			app: &fakeApp{
				ropcResult: authResult("abc123"),
			},
		},
		{
			name: "silent acquisition fails",
			app: &fakeApp{
				accounts:   []public.Account{{HomeAccountID: "acc-1"}},
				silentErr:  errors.New("token expired"),
				ropcResult: authResult("abc123"),
			},
		},
		{
			name: "account listing fails",
			app: &fakeApp{
				accountsErr: errors.New("cache unavailable"),
				ropcResult:  authResult("abc123"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(validCredential(), WithApplication(tt.app))
			require.NoError(t, err)

			got, err := provider.AccessToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "abc123", got)
			assert.Equal(t, 1, tt.app.ropcCalls)
			assert.Equal(t, "user@example.com", tt.app.gotUsername)
			assert.Equal(t, "hunter2", tt.app.gotPassword)
		})
	}
}

func TestAcquireSurfacesAuthError(t *testing.T) {
	tests := []struct {
		name string
		app  *fakeApp
	}{
		{
			name: "exchange rejected",
			app:  &fakeApp{ropcErr: errors.New("AADSTS50126: invalid credentials")},
		},
		{
			name: "exchange response without access token",
			app:  &fakeApp{ropcResult: public.AuthResult{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(validCredential(), WithApplication(tt.app))
			require.NoError(t, err)

			_, err = provider.Acquire(context.Background())
			require.Error(t, err)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, "user@example.com", authErr.Username)
		})
	}
}

func TestTokenSourceReusesUnexpiredToken(t *testing.T) {
	app := &fakeApp{ropcResult: authResult("abc123")}
	provider, err := NewProvider(validCredential(), WithApplication(app))
	require.NoError(t, err)

	ts := TokenSource(context.Background(), provider)

	first, err := ts.Token()
	require.NoError(t, err)
	second, err := ts.Token()
	require.NoError(t, err)

	assert.Equal(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, 1, app.ropcCalls, "unexpired token must be served from the source, not re-acquired")
}
