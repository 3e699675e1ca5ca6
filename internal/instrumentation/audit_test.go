package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// Test constants to reduce string repetition
const (
	testRecipient    = "jane@example.com"
	testDomain       = "example.com"
	testMailbox      = "mb_01hxyz"
	testToolSend     = "send_email"
	testToolInbox    = "check_inbox"
	testToolContacts = "add_contact"
)

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolSend)

	// Verify initial state
	if ti.Tool != testToolSend {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolSend)
	}
	if ti.EventID == "" {
		t.Error("EventID should not be empty")
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	// Complete the invocation - duration should be calculated from StartTime
	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_UniqueEventIDs(t *testing.T) {
	a := NewToolInvocation(testToolSend)
	b := NewToolInvocation(testToolSend)

	if a.EventID == b.EventID {
		t.Errorf("EventID should be unique per invocation, got %q twice", a.EventID)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolInbox)
	err := errors.New("insufficient API key scope")

	ti.CompleteWithError(err)

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "insufficient API key scope" {
		t.Errorf("Error = %q, want %q", ti.Error, "insufficient API key scope")
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation(testToolSend).
		WithMailbox(testMailbox).
		WithCategory(CategoryEmails, OperationSend).
		WithRecipients([]string{testRecipient})

	if ti.Mailbox != testMailbox {
		t.Errorf("Mailbox = %q, want %q", ti.Mailbox, testMailbox)
	}
	if ti.Category != CategoryEmails {
		t.Errorf("Category = %q, want %q", ti.Category, CategoryEmails)
	}
	if ti.Operation != OperationSend {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationSend)
	}
	if len(ti.Recipients) != 1 || ti.Recipients[0] != testRecipient {
		t.Errorf("Recipients = %v, want [%s]", ti.Recipients, testRecipient)
	}
}

func TestToolInvocation_RecipientDomains(t *testing.T) {
	ti := NewToolInvocation(testToolSend)
	ti.Recipients = []string{testRecipient, "bob@other.org", "invalid"}

	domains := ti.RecipientDomains()
	want := []string{testDomain, "other.org", "unknown"}

	if len(domains) != len(want) {
		t.Fatalf("RecipientDomains() = %v, want %v", domains, want)
	}
	for i := range want {
		if domains[i] != want[i] {
			t.Errorf("RecipientDomains()[%d] = %q, want %q", i, domains[i], want[i])
		}
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("test")

	ti.Success = true
	if status := ti.Status(); status != StatusSuccess {
		t.Errorf("Status() = %q, want %q", status, StatusSuccess)
	}

	ti.Success = false
	if status := ti.Status(); status != StatusError {
		t.Errorf("Status() = %q, want %q", status, StatusError)
	}
}

func TestToolInvocation_LogAttrsOmitRecipients(t *testing.T) {
	ti := NewToolInvocation(testToolSend).
		WithMailbox(testMailbox).
		WithCategory(CategoryEmails, OperationSend).
		WithRecipients([]string{testRecipient})
	ti.CompleteSuccess()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	attrs := ti.LogAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	logger.Info("test", args...)

	out := buf.String()
	if strings.Contains(out, testRecipient) {
		t.Errorf("LogAttrs output should not contain full recipient address, got: %s", out)
	}
	if !strings.Contains(out, testDomain) {
		t.Errorf("LogAttrs output should contain recipient domain, got: %s", out)
	}
}

func TestToolInvocation_LogAuditAttrsIncludeRecipients(t *testing.T) {
	ti := NewToolInvocation(testToolSend).
		WithRecipients([]string{testRecipient})
	ti.CompleteSuccess()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	attrs := ti.LogAuditAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	logger.Info("test", args...)

	if !strings.Contains(buf.String(), testRecipient) {
		t.Errorf("LogAuditAttrs output should contain full recipient address, got: %s", buf.String())
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})
	al.LogToolInvocation(NewToolInvocation(testToolContacts).CompleteSuccess())
	al.LogToolAudit(NewToolInvocation(testToolContacts).CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger should produce no output, got: %s", buf.String())
	}
}

func TestAuditLogger_IncludeRecipientsConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{
		Enabled:           true,
		IncludeRecipients: true,
	})

	ti := NewToolInvocation(testToolSend).WithRecipients([]string{testRecipient})
	ti.CompleteSuccess()
	al.LogToolInvocation(ti)

	if !strings.Contains(buf.String(), testRecipient) {
		t.Errorf("expected full recipient in output when IncludeRecipients is set, got: %s", buf.String())
	}
}

func TestAuditLogger_FailureLogsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	ti := NewToolInvocation(testToolSend).CompleteWithError(errors.New("rate limit exceeded"))
	al.LogToolInvocation(ti)

	out := buf.String()
	if !strings.Contains(out, "tool_failed") {
		t.Errorf("expected tool_failed message, got: %s", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected WARN level for failed invocation, got: %s", out)
	}
}

func TestAuditLogger_NilLoggerFallsBack(t *testing.T) {
	al := NewAuditLogger(nil)
	if al == nil {
		t.Fatal("expected non-nil audit logger")
	}
	// Must not panic
	al.LogToolInvocation(NewToolInvocation("test").CompleteSuccess())
}
