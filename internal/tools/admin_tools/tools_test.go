package admin_tools

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

func assertToolError(t *testing.T, result *mcp.CallToolResult, err error, want string) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler returned Go error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected tool error result")
	}
	if want != "" {
		if got := resultText(t, result); !strings.Contains(got, want) {
			t.Errorf("error = %q, want substring %q", got, want)
		}
	}
}

func TestRegisterAdminTools(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, readOnly := range []bool{false, true} {
		mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
			mcpserver.WithToolCapabilities(true),
		)
		if err := RegisterAdminTools(mcpSrv, sc, readOnly); err != nil {
			t.Errorf("RegisterAdminTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}

func TestHandleListAPIKeys(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/api-keys" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"api_keys":[]}`))
	})

	result, err := handleListAPIKeys(context.Background(), newRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
}

func TestHandleCreateAPIKey(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/api-keys" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"key_1","key":"mk_live_once"}`))
	})

	result, err := handleCreateAPIKey(context.Background(), newRequest(map[string]interface{}{
		"name":   "ci key",
		"scopes": []interface{}{"read", "send"},
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	if gotBody["name"] != "ci key" {
		t.Errorf("name = %v", gotBody["name"])
	}
	scopes, _ := gotBody["scopes"].([]interface{})
	if len(scopes) != 2 || scopes[0] != "read" || scopes[1] != "send" {
		t.Errorf("scopes = %v", gotBody["scopes"])
	}
}

func TestHandleCreateAPIKey_Validation(t *testing.T) {
	sc := newTestContext(t, nil)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing name", map[string]interface{}{"scopes": []interface{}{"read"}}, "name is required"},
		{"missing scopes", map[string]interface{}{"name": "k"}, "scopes is required"},
		{"empty scopes", map[string]interface{}{"name": "k", "scopes": []interface{}{}}, "scopes is required"},
		{"unknown scope", map[string]interface{}{"name": "k", "scopes": []interface{}{"sudo"}}, `unknown scope "sudo"`},
		{"non-array scopes", map[string]interface{}{"name": "k", "scopes": "read"}, "scopes must be an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleCreateAPIKey(context.Background(), newRequest(tt.args), sc)
			assertToolError(t, result, err, tt.want)
		})
	}
}

func TestHandleRevokeAPIKey(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v1/api-keys/key_9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"revoked":true}`))
	})

	result, err := handleRevokeAPIKey(context.Background(), newRequest(map[string]interface{}{
		"key_id": "key_9",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
}

func TestHandleRevokeAPIKey_RequiresID(t *testing.T) {
	sc := newTestContext(t, nil)

	result, err := handleRevokeAPIKey(context.Background(), newRequest(nil), sc)
	assertToolError(t, result, err, "key_id is required")
}

func TestHandleSuppressionList(t *testing.T) {
	var gotQuery string
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/suppression" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suppressed":[]}`))
	})

	if _, err := handleSuppressionList(context.Background(), newRequest(map[string]interface{}{
		"q":     "example.com",
		"limit": float64(10),
	}), sc); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	for _, want := range []string{"q=example.com", "limit=10"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestHandleRemoveSuppression(t *testing.T) {
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/v1/suppression/bounced@example.com" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"removed":true}`))
	})

	result, err := handleRemoveSuppression(context.Background(), newRequest(map[string]interface{}{
		"address": "bounced@example.com",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
}

func TestHandleRemoveSuppression_Validation(t *testing.T) {
	sc := newTestContext(t, nil)

	result, err := handleRemoveSuppression(context.Background(), newRequest(nil), sc)
	assertToolError(t, result, err, "address is required")

	result, err = handleRemoveSuppression(context.Background(), newRequest(map[string]interface{}{
		"address": "not an address",
	}), sc)
	assertToolError(t, result, err, "address must be a valid email address")
}

func TestHandleAuditLog(t *testing.T) {
	var gotQuery string
	sc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audit-log" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entries":[],"cursor":null}`))
	})

	if _, err := handleAuditLog(context.Background(), newRequest(map[string]interface{}{
		"limit":  float64(50),
		"cursor": "c_abc",
	}), sc); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	for _, want := range []string{"limit=50", "cursor=c_abc"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestHandleAuditLog_LimitBounds(t *testing.T) {
	sc := newTestContext(t, nil)

	for _, limit := range []float64{0, 101} {
		result, err := handleAuditLog(context.Background(), newRequest(map[string]interface{}{
			"limit": limit,
		}), sc)
		assertToolError(t, result, err, "limit must be between 1 and 100")
	}
}
