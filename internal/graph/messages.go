package graph

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// errStopIteration signals an early, non-failure exit from ForeachMessage.
var errStopIteration = errors.New("stop iteration")

// ForeachMessage iterates over the message identifiers in a folder,
// calling fn for each one in the order the API returns them
// (the provider's own default ordering, typically most-recent-first).
// It transparently follows @odata.nextLink continuation cursors until
// the folder is exhausted, so no page-size ceiling truncates the
// sequence. Iteration stops at the first error fn returns.
//
// A response missing its message collection (expired token, wrong
// folder id, throttling body) fails with *TraversalError.
func (c *Client) ForeachMessage(ctx context.Context, folderID string, fn func(id string) error) error {
	next := fmt.Sprintf("%s/me/mailFolders/%s/messages?$top=%d&$select=id",
		c.baseURL, url.PathEscape(folderID), c.pageSize)

	for next != "" {
		var page messageList
		if err := c.get(ctx, "listMessages", next, &page); err != nil {
			return &TraversalError{Op: "listMessages", Resource: folderID, Err: err}
		}
		if page.Value == nil {
			return &TraversalError{Op: "listMessages", Resource: folderID, Err: errMissingCollection}
		}

		for _, m := range page.Value {
			if err := fn(m.ID); err != nil {
				return err
			}
		}
		next = page.NextLink
	}
	return nil
}

// ListMessageIDs collects up to max message identifiers from a folder,
// preserving the API's order. A max of zero or less means no limit.
func (c *Client) ListMessageIDs(ctx context.Context, folderID string, max int) ([]string, error) {
	var ids []string
	err := c.ForeachMessage(ctx, folderID, func(id string) error {
		ids = append(ids, id)
		if max > 0 && len(ids) >= max {
			return errStopIteration
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return nil, err
	}
	return ids, nil
}
