package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yurkol/mailsweep/internal/logging"
)

// ListFolders returns the mailbox's top-level mail folders, following
// continuation links across pages. A response missing its folder
// collection fails with *TraversalError.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	url := fmt.Sprintf("%s/me/mailFolders?$top=%d", c.baseURL, c.pageSize)

	var folders []Folder
	for url != "" {
		var page folderList
		if err := c.get(ctx, "listFolders", url, &page); err != nil {
			return nil, &TraversalError{Op: "listFolders", Err: err}
		}
		if page.Value == nil {
			return nil, &TraversalError{Op: "listFolders", Err: errMissingCollection}
		}
		folders = append(folders, page.Value...)
		url = page.NextLink
	}
	return folders, nil
}

// FolderID maps a folder display name to the provider's identifier.
//
// The match is exact and case-sensitive against the mailbox's
// locale-specific names ("Inbox" in an English mailbox, a localized
// variant elsewhere); callers must supply the name matching the
// mailbox's configured locale. Graph also resolves its well-known
// names (inbox, sentitems, ...) directly as folder ids, so callers
// wanting a locale-agnostic lookup can pass those to the message
// endpoints instead.
//
// A mailbox without a matching folder, or a response carrying no
// folder collection (malformed body, insufficient scope), yields
// ("", false, nil) rather than an error; callers must check the bool
// before listing messages. Only transport-level failures return an
// error. Resolving the same name twice under one token yields the
// same identifier.
func (c *Client) FolderID(ctx context.Context, displayName string) (string, bool, error) {
	folders, err := c.ListFolders(ctx)
	if err != nil {
		// Soft-fail policy: a degraded response is "not found", keeping
		// the caller's check in one place. Transport-level failures
		// (network, cancellation) still propagate.
		var apiErr *apiError
		if errors.As(err, &apiErr) || errors.Is(err, errMissingCollection) || errors.Is(err, errMalformedBody) {
			c.logger.Debug("folder listing degraded to not-found",
				logging.Folder(displayName), logging.Err(err))
			return "", false, nil
		}
		return "", false, err
	}

	for _, folder := range folders {
		if folder.DisplayName == displayName {
			return folder.ID, true, nil
		}
	}
	return "", false, nil
}

// Well-known folder names Graph resolves directly in place of an id,
// independent of the mailbox locale.
var wellKnownFolders = map[string]struct{}{
	"inbox":        {},
	"drafts":       {},
	"sentitems":    {},
	"deleteditems": {},
	"junkemail":    {},
	"archive":      {},
	"outbox":       {},
}

// WellKnownFolder reports whether name is one of Graph's well-known
// folder names, returning its canonical lowercase form. The message
// endpoints accept these in place of a folder id, which sidesteps the
// locale-sensitive display-name lookup.
func WellKnownFolder(name string) (string, bool) {
	canonical := strings.ToLower(name)
	_, ok := wellKnownFolders[canonical]
	return canonical, ok
}
