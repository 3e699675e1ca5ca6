package account_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/config"
	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
)

func newTestContext(t *testing.T, handler http.HandlerFunc) *server.ServerContext {
	t.Helper()

	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected network call: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sc, err := server.NewServerContext(context.Background(), config.Config{
		APIKey:  "mk_test",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	sc.SetClient(multimail.NewClient(srv.URL, "mk_test"))
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestRegisterAccountTools(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, readOnly := range []bool{false, true} {
		mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
			mcpserver.WithToolCapabilities(true),
		)
		if err := RegisterAccountTools(mcpSrv, sc, readOnly); err != nil {
			t.Errorf("RegisterAccountTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}

func TestHandleGetAccount(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/account" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Acme","status":"active"}`))
	})

	result, err := handleGetAccount(context.Background(), newRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
}

func TestHandleGetUsage_PeriodQuery(t *testing.T) {
	var gotQuery string
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/usage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sent":10}`))
	})

	if _, err := handleGetUsage(context.Background(), newRequest(map[string]interface{}{
		"period": "2026-08",
	}), sc); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if gotQuery != "period=2026-08" {
		t.Errorf("query = %q", gotQuery)
	}

	if _, err := handleGetUsage(context.Background(), newRequest(nil), sc); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query without period = %q, want empty", gotQuery)
	}
}

func TestHandleActivateAccount(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/confirm" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"active"}`))
	})

	result, err := handleActivateAccount(context.Background(), newRequest(map[string]interface{}{
		"code": "SKP-7D2-4V8",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	// Activation happens before the key is usable, so the call is unauthenticated
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none", gotAuth)
	}
	if gotBody["code"] != "SKP-7D2-4V8" {
		t.Errorf("code = %v, want sent as typed", gotBody["code"])
	}
}

func TestHandleActivateAccount_ErrorPrefixed(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid or expired code"}`))
	})

	result, err := handleActivateAccount(context.Background(), newRequest(map[string]interface{}{
		"code": "SKP-XXX-XXX",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := resultText(t, result); !strings.HasPrefix(got, "Activation failed: ") {
		t.Errorf("error = %q, want Activation failed prefix", got)
	}
}

func TestHandleActivateAccount_RequiresCode(t *testing.T) {
	sc := newTestContext(t, nil)

	result, err := handleActivateAccount(context.Background(), newRequest(map[string]interface{}{}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "code is required") {
		t.Errorf("got %v", result)
	}
}

func TestHandleResendConfirmation(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/account/resend-confirmation" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"sent"}`))
	})

	result, err := handleResendConfirmation(context.Background(), newRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
}

func TestHandleUpdateAccount_TriStateBody(t *testing.T) {
	var gotRaw map[string]json.RawMessage
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/v1/account" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotRaw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Acme"}`))
	})

	result, err := handleUpdateAccount(context.Background(), newRequest(map[string]interface{}{
		"name":             "Acme",
		"physical_address": nil,
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	if string(gotRaw["name"]) != `"Acme"` {
		t.Errorf("name = %s", gotRaw["name"])
	}
	if string(gotRaw["physical_address"]) != "null" {
		t.Errorf("physical_address = %s, want null", gotRaw["physical_address"])
	}
	if _, ok := gotRaw["oversight_email"]; ok {
		t.Error("oversight_email absent from args must not appear in body")
	}
}

func TestHandleUpdateAccount_InvalidOversightEmail(t *testing.T) {
	sc := newTestContext(t, nil)

	result, err := handleUpdateAccount(context.Background(), newRequest(map[string]interface{}{
		"oversight_email": "not an address",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "oversight_email must be a valid email address") {
		t.Errorf("got %v", result)
	}
}

func TestHandleDeleteAccount(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v1/account" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deleted":true}`))
	})

	result, err := handleDeleteAccount(context.Background(), newRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
}
