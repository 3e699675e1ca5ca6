package multimail

import (
	"net/url"
	"strings"
	"testing"
)

func TestQueryOmitsAbsentParameters(t *testing.T) {
	q := NewQuery().
		String("status", "unread").
		String("sender", "").
		String("cursor", "")

	encoded := q.Encode()
	if encoded != "?status=unread" {
		t.Errorf("Encode() = %q, want %q", encoded, "?status=unread")
	}
}

func TestQueryEmptyEncodesToNothing(t *testing.T) {
	if got := NewQuery().Encode(); got != "" {
		t.Errorf("Encode() = %q, want empty string", got)
	}
}

func TestQueryExplicitFalseBoolean(t *testing.T) {
	encoded := NewQuery().Bool("has_attachments", false).Encode()
	if encoded != "?has_attachments=false" {
		t.Errorf("Encode() = %q, want explicit has_attachments=false", encoded)
	}
}

func TestQueryCombinedFilters(t *testing.T) {
	encoded := NewQuery().
		String("status", "read").
		Bool("has_attachments", true).
		Int("limit", 25).
		String("cursor", "abc").
		Encode()

	vals, err := url.ParseQuery(strings.TrimPrefix(encoded, "?"))
	if err != nil {
		t.Fatalf("ParseQuery() error: %v", err)
	}

	want := map[string]string{
		"status":          "read",
		"has_attachments": "true",
		"limit":           "25",
		"cursor":          "abc",
	}
	for key, val := range want {
		if got := vals.Get(key); got != val {
			t.Errorf("param %s = %q, want %q", key, got, val)
		}
	}
	if len(vals) != len(want) {
		t.Errorf("query has %d params, want %d", len(vals), len(want))
	}
}

func TestBodyOmitsEmptyArrays(t *testing.T) {
	body := NewBody().
		Strings("to", []string{"a@example.com"}).
		Strings("cc", nil).
		Strings("bcc", []string{})

	if _, ok := body["cc"]; ok {
		t.Error("empty cc must be omitted from the request body")
	}
	if _, ok := body["bcc"]; ok {
		t.Error("empty bcc must be omitted from the request body")
	}
	if _, ok := body["to"]; !ok {
		t.Error("non-empty to must be present in the request body")
	}
}

func TestBodyStringOmitsEmpty(t *testing.T) {
	body := NewBody().
		String("subject", "hello").
		String("idempotency_key", "")

	if _, ok := body["idempotency_key"]; ok {
		t.Error("absent idempotency_key must not appear in the request body")
	}
	if body["subject"] != "hello" {
		t.Errorf("subject = %v, want hello", body["subject"])
	}
}

func TestCopyPresentTriState(t *testing.T) {
	args := map[string]any{
		"display_name":    "Agent",
		"signature_block": nil, // explicit null: clear the setting
		// auto_cc absent: leave unchanged
	}

	body := CopyPresent(args, "display_name", "signature_block", "auto_cc")

	if body["display_name"] != "Agent" {
		t.Errorf("display_name = %v, want Agent", body["display_name"])
	}
	if val, ok := body["signature_block"]; !ok || val != nil {
		t.Errorf("signature_block = (%v, %v), want explicit nil", val, ok)
	}
	if _, ok := body["auto_cc"]; ok {
		t.Error("absent auto_cc must not appear in the PATCH body")
	}
}
