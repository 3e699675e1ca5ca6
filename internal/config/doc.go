// Package config resolves the gateway's process configuration from the
// environment once at startup. The credential is mandatory; the default
// mailbox and API base URL are optional with lazy, per-call fallbacks
// implemented elsewhere.
package config
