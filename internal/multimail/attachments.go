package multimail

import (
	"encoding/base64"
	"fmt"
)

// fallbackContentType is reported for downloads where the server omitted the
// Content-Type header.
const fallbackContentType = "application/octet-stream"

// Attachment is an outbound attachment as carried in a send or reply request
// body. Content is the standard base64 encoding of the attachment bytes.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
	Size        int    `json:"size"`
}

// AttachmentDownload is the result of downloading an attachment: the bytes
// re-encoded to base64 alongside the resolved content type and exact length.
type AttachmentDownload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
	Size        int    `json:"size"`
}

// EncodeAttachment encodes attachment bytes for inclusion in a send or reply
// body.
func EncodeAttachment(filename, contentType string, data []byte) Attachment {
	return Attachment{
		Filename:    filename,
		ContentType: contentType,
		Content:     base64.StdEncoding.EncodeToString(data),
		Size:        len(data),
	}
}

// DecodeContent decodes the base64 content of an attachment back to bytes.
func (a Attachment) DecodeContent() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Content)
	if err != nil {
		return nil, fmt.Errorf("attachment %q: invalid base64 content: %w", a.Filename, err)
	}
	return data, nil
}

// NewAttachmentDownload wraps downloaded attachment bytes for return to the
// caller. An empty contentType falls back to application/octet-stream.
func NewAttachmentDownload(filename, contentType string, data []byte) AttachmentDownload {
	if contentType == "" {
		contentType = fallbackContentType
	}
	return AttachmentDownload{
		Filename:    filename,
		ContentType: contentType,
		Content:     base64.StdEncoding.EncodeToString(data),
		Size:        len(data),
	}
}

// ParseAttachments validates the attachments argument of a send or reply
// call. raw is the decoded JSON argument: an array of objects with filename,
// content_type and base64 content fields. The content is decoded and
// re-encoded so malformed base64 fails before any network call and the size
// field always reflects the true byte length.
func ParseAttachments(raw any) ([]Attachment, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("attachments must be an array")
	}
	attachments := make([]Attachment, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("attachments[%d] must be an object", i)
		}
		filename, _ := obj["filename"].(string)
		if filename == "" {
			return nil, fmt.Errorf("attachments[%d]: filename is required", i)
		}
		contentType, _ := obj["content_type"].(string)
		if contentType == "" {
			contentType = fallbackContentType
		}
		content, _ := obj["content"].(string)
		candidate := Attachment{Filename: filename, ContentType: contentType, Content: content}
		data, err := candidate.DecodeContent()
		if err != nil {
			return nil, fmt.Errorf("attachments[%d]: %w", i, err)
		}
		attachments = append(attachments, EncodeAttachment(filename, contentType, data))
	}
	return attachments, nil
}
