// Package multimail provides the HTTP client for the MultiMail REST API.
// It handles bearer authentication, JSON request/response handling, and
// classification of API failures into typed errors.
//
// The client is intentionally schema-light: successful responses are returned
// as raw JSON and passed through to the caller unchanged. The package only
// shapes outgoing requests (query parameters, PATCH bodies, attachment
// encoding) and classifies non-2xx responses.
//
// Error classification:
//
//   - [AuthError]: invalid API key (401).
//   - [ScopeError]: API key lacks the required scope (403).
//   - [ConflictError]: operation conflicts with the email lifecycle (409),
//     e.g. cancelling an email that was already sent.
//   - [RateLimitError]: rate limited (429), sub-classified into warmup daily
//     cap, monthly quota, or generic.
//   - [ParseError]: the API returned a non-JSON body.
//   - [APIError]: any other non-2xx status.
//
// Use errors.As to match specific error types:
//
//	var rle *multimail.RateLimitError
//	if errors.As(err, &rle) && rle.Kind == multimail.RateLimitWarmup {
//	    // daily warmup cap reached
//	}
//
// A Client performs exactly one network call per method invocation, keeps no
// state between calls, and never retries. It is safe for concurrent use.
package multimail
