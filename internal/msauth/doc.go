// Package msauth acquires delegated access tokens for Microsoft Graph.
//
// Acquisition is silent-first: the MSAL public client's in-memory
// account cache is consulted before falling back to the
// resource-owner-password-credentials (ROPC) exchange. The cache is
// process-local and never persisted.
//
// The TokenProvider interface allows different token sources to be
// plugged in; TokenSource adapts a provider to oauth2.TokenSource so
// the Graph client can be built with oauth2.NewClient.
package msauth
