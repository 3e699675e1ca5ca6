package multimail

import (
	"errors"
	"fmt"
)

// AuthError indicates the API rejected the credential (HTTP 401).
type AuthError struct{}

func (e *AuthError) Error() string {
	return "invalid API key. Check the MULTIMAIL_API_KEY environment variable"
}

// ScopeError indicates the API key lacks the scope required for an operation
// (HTTP 403). Detail carries the server-supplied explanation when present.
type ScopeError struct {
	Detail string
}

func (e *ScopeError) Error() string {
	if e.Detail == "" {
		return "API key lacks the required scope for this operation"
	}
	return fmt.Sprintf("API key lacks the required scope for this operation: %s", e.Detail)
}

// ConflictError indicates the operation conflicts with the current email
// lifecycle state (HTTP 409), e.g. cancelling an email that was already sent.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return "operation conflicts with the current email state"
	}
	return e.Detail
}

// RateLimitKind identifies which limit produced a 429 response.
type RateLimitKind string

// Rate limit sub-classes.
const (
	RateLimitWarmup  RateLimitKind = "warmup"
	RateLimitQuota   RateLimitKind = "quota"
	RateLimitGeneric RateLimitKind = "generic"
)

// RateLimitError indicates the API rate limited the request (HTTP 429).
//
// Warmup errors carry the daily figures: Sent, Limit, Stage and Hint. Quota
// errors indicate the monthly quota is exhausted. Generic errors carry the
// Retry-After header value in seconds, or "unknown" when the header was
// absent.
type RateLimitError struct {
	Kind       RateLimitKind
	Sent       int
	Limit      int
	Stage      int
	Hint       string
	RetryAfter string
	Detail     string
}

func (e *RateLimitError) Error() string {
	switch e.Kind {
	case RateLimitWarmup:
		msg := fmt.Sprintf("daily warmup limit reached: %d/%d emails sent at warmup stage %d", e.Sent, e.Limit, e.Stage)
		if e.Hint != "" {
			msg += ". " + e.Hint
		}
		return msg
	case RateLimitQuota:
		msg := "monthly email quota exceeded"
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	default:
		return fmt.Sprintf("rate limit exceeded. Retry after %s seconds", e.RetryAfter)
	}
}

// ParseError indicates the API returned a body that is not valid JSON.
// Excerpt holds at most 200 characters of the raw body.
type ParseError struct {
	Status  int
	Excerpt string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("API returned non-JSON response (%d): %s", e.Status, e.Excerpt)
}

// APIError is any other non-2xx response. Detail is the server's error field
// when present, otherwise the raw JSON body.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Detail)
}

// MailboxResolutionError indicates a mailbox-scoped operation was invoked
// without an explicit mailbox_id and no default mailbox is configured.
type MailboxResolutionError struct{}

func (e *MailboxResolutionError) Error() string {
	return "no mailbox_id provided and MULTIMAIL_MAILBOX_ID is not set. " +
		"Either pass mailbox_id or set the MULTIMAIL_MAILBOX_ID environment variable. " +
		"Use list_mailboxes to discover available mailboxes"
}

// Error classes for low-cardinality metrics labels, one per typed error.
const (
	ErrClassAuth      = "auth"
	ErrClassScope     = "scope"
	ErrClassRateLimit = "rate_limit"
	ErrClassConflict  = "conflict"
	ErrClassParse     = "parse"
	ErrClassAPI       = "api"
)

// ErrorClass maps err onto its error class, or "" when err is not a
// classified API failure (validation and mailbox resolution errors have no
// class).
func ErrorClass(err error) string {
	var (
		authErr     *AuthError
		scopeErr    *ScopeError
		rateErr     *RateLimitError
		conflictErr *ConflictError
		parseErr    *ParseError
		apiErr      *APIError
	)
	switch {
	case errors.As(err, &authErr):
		return ErrClassAuth
	case errors.As(err, &scopeErr):
		return ErrClassScope
	case errors.As(err, &rateErr):
		return ErrClassRateLimit
	case errors.As(err, &conflictErr):
		return ErrClassConflict
	case errors.As(err, &parseErr):
		return ErrClassParse
	case errors.As(err, &apiErr):
		return ErrClassAPI
	default:
		return ""
	}
}
