package graph

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// Folder is a mail folder as the provider reports it. DisplayName is a
// human label, locale-dependent and not guaranteed unique; ID is the
// opaque, stable, provider-assigned identifier.
type Folder struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Attachment carries the provider-defined attachment fields verbatim.
// The schema is not interpreted beyond decoding ContentBytes on demand.
type Attachment struct {
	ODataType    string `json:"@odata.type"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	ContentBytes string `json:"contentBytes"`
}

// Content decodes the attachment's base64 payload. Graph encodes with
// the standard alphabet; the url alphabet is tried as a fallback.
func (a Attachment) Content() ([]byte, error) {
	if a.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", a.Size, MaxAttachmentSize)
	}

	data, err := base64.StdEncoding.DecodeString(a.ContentBytes)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(a.ContentBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment content: %w", err)
		}
	}
	return data, nil
}

// Paged response envelopes. A nil Value means the response carried no
// collection at all, which callers treat differently from an empty one.

type folderList struct {
	Value    []Folder `json:"value"`
	NextLink string   `json:"@odata.nextLink"`
}

type messageList struct {
	Value []struct {
		ID string `json:"id"`
	} `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

type attachmentList struct {
	Value    []Attachment `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

// TraversalError represents a listing call that returned a response
// missing its expected collection, or a non-success status.
type TraversalError struct {
	// Op is the operation that failed (e.g. "listMessages", "listAttachments")
	Op string

	// Resource is the folder or message identifier the operation targeted
	Resource string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *TraversalError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("graph %s (%s): %v", e.Op, e.Resource, e.Err)
	}
	return fmt.Sprintf("graph %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *TraversalError) Unwrap() error {
	return e.Err
}

// errMissingCollection marks a well-formed HTTP response whose body
// lacked the expected value array (expired token, wrong id, throttling
// body passed through).
var errMissingCollection = fmt.Errorf("response is missing the value collection")

// errMalformedBody marks a response body that could not be decoded.
var errMalformedBody = fmt.Errorf("malformed response body")

// SanitizeFilename sanitizes a filename to prevent path traversal attacks
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
