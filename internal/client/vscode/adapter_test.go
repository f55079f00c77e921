package vscode

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/overture/internal/overture"
)

func TestDetectConfigPath(t *testing.T) {
	a := New()

	if got := a.DetectConfigPath("linux", "/work/repo"); got != filepath.Join("/work/repo", ".vscode", "mcp.json") {
		t.Errorf("project path = %q", got)
	}

	tests := []struct {
		platform string
		fragment string
	}{
		{"darwin", filepath.Join("Library", "Application Support", "Code")},
		{"windows", filepath.Join("AppData", "Roaming", "Code")},
		{"linux", filepath.Join(".config", "Code")},
	}
	for _, tt := range tests {
		got := a.DetectConfigPath(tt.platform, "")
		if !strings.Contains(got, tt.fragment) || !strings.HasSuffix(got, "mcp.json") {
			t.Errorf("%s path = %q, want fragment %q", tt.platform, got, tt.fragment)
		}
	}
}

func TestConvertFromOverture_ServersRootKey(t *testing.T) {
	a := New()

	cfg := overture.NewMergedConfig()
	cfg.Servers["github"] = &overture.ServerSpec{Name: "github", Command: "gh"}

	out, err := a.ConvertFromOverture(cfg, "linux")
	if err != nil {
		t.Fatalf("ConvertFromOverture() error = %v", err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["servers"]; !ok {
		t.Errorf("document %s missing the servers root key", data)
	}
	if _, ok := doc["mcpServers"]; ok {
		t.Error("document uses mcpServers; VS Code expects servers")
	}

	if got := out.Servers["github"].Type; got != "stdio" {
		t.Errorf("type = %q, want explicit transport field", got)
	}
}

func TestSupportsTransport(t *testing.T) {
	a := New()
	for _, tr := range overture.Transports() {
		if !a.SupportsTransport(tr) {
			t.Errorf("SupportsTransport(%s) = false", tr)
		}
	}
}
