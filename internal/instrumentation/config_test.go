package instrumentation

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "multimail-mcp" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "multimail-mcp")
	}
	if !cfg.Enabled {
		t.Error("instrumentation should be enabled by default")
	}
	if cfg.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", cfg.MetricsExporter, ExporterPrometheus)
	}
	if cfg.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", cfg.TracingExporter, ExporterNone)
	}
	if cfg.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", cfg.TraceSamplingRate)
	}
	if cfg.PrometheusEndpoint != "/metrics" {
		t.Errorf("PrometheusEndpoint = %q, want %q", cfg.PrometheusEndpoint, "/metrics")
	}
	if !cfg.AuditLogging.Enabled {
		t.Error("audit logging should be enabled by default")
	}
	if cfg.AuditLogging.IncludeRecipients {
		t.Error("recipient addresses should be excluded from audit logs by default")
	}
}

func TestDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "mail-gateway")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("AUDIT_LOGGING_INCLUDE_RECIPIENTS", "true")

	cfg := DefaultConfig()

	if cfg.ServiceName != "mail-gateway" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "mail-gateway")
	}
	if cfg.Enabled {
		t.Error("INSTRUMENTATION_ENABLED=false should disable instrumentation")
	}
	if cfg.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q, want %q", cfg.MetricsExporter, ExporterStdout)
	}
	if cfg.TracingExporter != ExporterOTLP {
		t.Errorf("TracingExporter = %q, want %q", cfg.TracingExporter, ExporterOTLP)
	}
	if cfg.OTLPEndpoint != "collector:4318" {
		t.Errorf("OTLPEndpoint = %q, want %q", cfg.OTLPEndpoint, "collector:4318")
	}
	if !cfg.AuditLogging.IncludeRecipients {
		t.Error("AUDIT_LOGGING_INCLUDE_RECIPIENTS=true should enable recipient logging")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative sampling rate",
			mutate:  func(c *Config) { c.TraceSamplingRate = -0.1 },
			wantErr: true,
		},
		{
			name:    "sampling rate above one",
			mutate:  func(c *Config) { c.TraceSamplingRate = 1.5 },
			wantErr: true,
		},
		{
			name:    "unknown metrics exporter",
			mutate:  func(c *Config) { c.MetricsExporter = "graphite" },
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			mutate:  func(c *Config) { c.TracingExporter = "jaeger" },
			wantErr: true,
		},
		{
			name: "otlp tracing without endpoint",
			mutate: func(c *Config) {
				c.TracingExporter = ExporterOTLP
				c.OTLPEndpoint = ""
			},
			wantErr: true,
		},
		{
			name: "otlp metrics with endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
				c.OTLPEndpoint = "collector:4318"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
