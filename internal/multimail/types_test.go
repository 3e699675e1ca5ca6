package multimail

import "testing"

func TestValidAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"not-an-email", false},
		{"user@", false},
		{"Display Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := ValidAddress(tt.addr); got != tt.want {
				t.Errorf("ValidAddress(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestValidAddresses(t *testing.T) {
	if !ValidAddresses(nil) {
		t.Error("ValidAddresses(nil) = false, want true")
	}
	if !ValidAddresses([]string{"a@example.com", "b@example.com"}) {
		t.Error("all-valid list rejected")
	}
	if ValidAddresses([]string{"a@example.com", "nope"}) {
		t.Error("list with invalid entry accepted")
	}
}

func TestIsPendingStatus(t *testing.T) {
	pending := []string{"pending_scan", "pending_send_approval", "pending_inbound_approval", "pending_approval"}
	for _, s := range pending {
		if !IsPendingStatus(s) {
			t.Errorf("IsPendingStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"sent", "cancelled", "rejected", ""} {
		if IsPendingStatus(s) {
			t.Errorf("IsPendingStatus(%q) = true, want false", s)
		}
	}
}

func TestValidOversightMode(t *testing.T) {
	for _, m := range OversightModes {
		if !ValidOversightMode(m) {
			t.Errorf("ValidOversightMode(%q) = false", m)
		}
	}
	if ValidOversightMode("supervised") {
		t.Error("unknown mode accepted")
	}
}

func TestValidAPIKeyScope(t *testing.T) {
	for _, s := range APIKeyScopes {
		if !ValidAPIKeyScope(s) {
			t.Errorf("ValidAPIKeyScope(%q) = false", s)
		}
	}
	if ValidAPIKeyScope("root") {
		t.Error("unknown scope accepted")
	}
}
