package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with recipient identifiers.

// ExtractRecipientDomain extracts the domain part from an email address.
// This reduces cardinality by using the domain instead of the full address.
//
// Example:
//
//	ExtractRecipientDomain("jane@example.com")  // "example.com"
//	ExtractRecipientDomain("user@gmail.com")    // "gmail.com"
//	ExtractRecipientDomain("invalid")           // "unknown"
//	ExtractRecipientDomain("")                  // "unknown"
func ExtractRecipientDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}
