package multimail

import (
	"net/mail"
	"strings"
)

// Oversight modes a mailbox can operate in, ordered from most restrictive to
// most autonomous.
const (
	OversightReadOnly   = "read_only"
	OversightAutonomous = "autonomous"
	OversightMonitored  = "monitored"
	OversightGatedSend  = "gated_send"
	OversightGatedAll   = "gated_all"
)

// OversightModes lists all valid mailbox oversight modes.
var OversightModes = []string{
	OversightReadOnly,
	OversightAutonomous,
	OversightMonitored,
	OversightGatedSend,
	OversightGatedAll,
}

// EmailStatuses lists the email statuses accepted by the inbox status filter.
var EmailStatuses = []string{
	"pending_scan",
	"pending_send_approval",
	"pending_inbound_approval",
	"sent",
	"delivered",
	"rejected",
	"cancelled",
	"send_failed",
	"bounced",
	"unread",
	"read",
	"archived",
	"deleted",
}

// APIKeyScopes lists the scopes that can be granted to an API key.
var APIKeyScopes = []string{"read", "send", "admin", "oversight"}

// pendingStatuses are transient email states. They indicate asynchronous
// processing (threat scanning or human approval) and are successful outcomes,
// never errors. Callers must not resend an email in a pending state.
var pendingStatuses = map[string]bool{
	"pending_scan":             true,
	"pending_send_approval":    true,
	"pending_inbound_approval": true,
	"pending_approval":         true,
}

// IsPendingStatus reports whether status is a transient email lifecycle state.
func IsPendingStatus(status string) bool {
	return pendingStatuses[status]
}

// ValidOversightMode reports whether mode is a known oversight mode.
func ValidOversightMode(mode string) bool {
	for _, m := range OversightModes {
		if m == mode {
			return true
		}
	}
	return false
}

// ValidEmailStatus reports whether status is a known email status.
func ValidEmailStatus(status string) bool {
	for _, s := range EmailStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidAPIKeyScope reports whether scope is a known API key scope.
func ValidAPIKeyScope(scope string) bool {
	for _, s := range APIKeyScopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ValidAddress reports whether addr is a bare RFC 5322 email address without
// a display name.
func ValidAddress(addr string) bool {
	if addr == "" || strings.ContainsAny(addr, " \t\r\n") {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	return parsed.Address == addr
}

// ValidAddresses reports whether every element of addrs is a valid email
// address. An empty slice is valid.
func ValidAddresses(addrs []string) bool {
	for _, a := range addrs {
		if !ValidAddress(a) {
			return false
		}
	}
	return true
}
