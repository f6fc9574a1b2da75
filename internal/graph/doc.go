// Package graph provides a client for the Microsoft Graph mail API.
//
// The client covers the traversal this tool needs:
//   - Resolving a mail folder's identifier from its display name
//   - Enumerating message identifiers in a folder
//   - Listing a message's attachments
//
// Listing calls follow @odata.nextLink continuation cursors until
// exhausted, so callers iterate without truncation risk regardless of
// folder size. Throttling and server errors (429/5xx) are retried with
// bounded exponential backoff, honoring a Retry-After hint when the
// provider supplies one; other 4xx responses are surfaced immediately.
//
// Authentication is delegated to an oauth2.TokenSource (see the msauth
// package), so every request carries a fresh bearer token.
package graph
