package client

import (
	"strings"
	"testing"

	"github.com/thoreinstein/overture/internal/overture"
)

func TestValidateTransports(t *testing.T) {
	a := stdioAdapter("codex")

	cfg := overture.NewMergedConfig()
	cfg.Servers["local"] = &overture.ServerSpec{Name: "local", Command: "gh"}
	cfg.Servers["remote"] = &overture.ServerSpec{Name: "remote", URL: "https://mcp.example.com"}

	result := ValidateTransports(cfg, a)

	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d, want verdicts for every server", len(result.Entries))
	}
	if result.AllSupported() {
		t.Error("AllSupported() = true with an SSE entry against a stdio-only client")
	}

	warnings := result.Warnings("codex")
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	for _, part := range []string{`"remote"`, `"sse"`, `"codex"`} {
		if !strings.Contains(warnings[0], part) {
			t.Errorf("warning %q missing %s", warnings[0], part)
		}
	}

	filtered := result.Filtered(cfg)
	if _, ok := filtered["local"]; !ok {
		t.Error("supported entry dropped by Filtered()")
	}
	if _, ok := filtered["remote"]; ok {
		t.Error("unsupported entry survived Filtered()")
	}
}

func TestValidateTransports_AllSupported(t *testing.T) {
	a := stdioAdapter("codex")

	cfg := overture.NewMergedConfig()
	cfg.Servers["local"] = &overture.ServerSpec{Name: "local", Command: "gh"}

	result := ValidateTransports(cfg, a)
	if !result.AllSupported() {
		t.Error("AllSupported() = false for an all-stdio config")
	}
	if w := result.Warnings("codex"); w != nil {
		t.Errorf("warnings = %v, want none", w)
	}
}
