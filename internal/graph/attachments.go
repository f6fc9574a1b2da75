package graph

import (
	"context"
	"fmt"
	"net/url"
)

// ListAttachments retrieves the attachments of a message, following
// continuation links across pages. The provider's fields are returned
// verbatim; a message with zero attachments yields an empty slice, not
// an error. Non-success status or a body missing its collection fails
// with *TraversalError.
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]Attachment, error) {
	if messageID == "" {
		return nil, &TraversalError{Op: "listAttachments", Err: fmt.Errorf("messageID is required")}
	}

	next := fmt.Sprintf("%s/me/messages/%s/attachments", c.baseURL, url.PathEscape(messageID))

	attachments := []Attachment{}
	for next != "" {
		var page attachmentList
		if err := c.get(ctx, "listAttachments", next, &page); err != nil {
			return nil, &TraversalError{Op: "listAttachments", Resource: messageID, Err: err}
		}
		if page.Value == nil {
			return nil, &TraversalError{Op: "listAttachments", Resource: messageID, Err: errMissingCollection}
		}
		attachments = append(attachments, page.Value...)
		next = page.NextLink
	}
	return attachments, nil
}
