package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyMailbox   = "mailbox"
	KeyEmailID   = "email_id"
	KeyStatus    = "status"
	KeyDuration  = "duration"
	KeyError     = "error"
	KeyRecipient = "recipient_hash"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from the instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithMailbox returns a logger with the mailbox attribute set.
func WithMailbox(logger *slog.Logger, mailboxID string) *slog.Logger {
	return logger.With(slog.String(KeyMailbox, mailboxID))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Mailbox returns a slog attribute for the mailbox id. Mailbox ids are opaque
// identifiers, not addresses, so they are safe to log directly.
func Mailbox(mailboxID string) slog.Attr {
	return slog.String(KeyMailbox, mailboxID)
}

// EmailID returns a slog attribute for an email id.
func EmailID(id string) slog.Attr {
	return slog.String(KeyEmailID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from
// output. This allows safely passing Err(maybeNilErr) without adding empty
// attributes.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email address for
// logging purposes. This allows correlation of log entries without exposing
// PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "addr:" + hex.EncodeToString(hash[:8])
}

// RecipientHash returns a slog attribute with an anonymized recipient
// address.
func RecipientHash(email string) slog.Attr {
	return slog.String(KeyRecipient, AnonymizeEmail(email))
}

// SanitizeKey returns a masked version of an API key for logging.
// It returns a length indicator without exposing any key content.
func SanitizeKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[key:%d chars]", len(key))
}

// ExtractDomain extracts the domain part from an email address. Useful for
// lower-cardinality logging where the full address would create too many
// unique values.
func ExtractDomain(email string) string {
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// Domain returns a slog attribute for the email domain (lower cardinality
// than a full address).
func Domain(email string) slog.Attr {
	return slog.String("recipient_domain", ExtractDomain(email))
}
