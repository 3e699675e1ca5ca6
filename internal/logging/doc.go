// Package logging provides structured logging utilities for the multimail-mcp
// gateway.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "emails.list")
//	logger.Info("listing emails",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("email sent",
//	    logging.RecipientHash(address))
//
// # Security Considerations
//
// Recipient addresses are hashed to prevent PII leakage while still allowing
// correlation, and API keys are never logged beyond their length.
package logging
