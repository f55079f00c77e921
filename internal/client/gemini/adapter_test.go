package gemini

import (
	"path/filepath"
	"testing"

	"github.com/thoreinstein/overture/internal/overture"
)

func TestDetectConfigPath(t *testing.T) {
	a := New()

	if got := a.DetectConfigPath("linux", "/work/repo"); got != filepath.Join("/work/repo", ".gemini", "settings.json") {
		t.Errorf("project path = %q", got)
	}
}

func TestConvertFromOverture(t *testing.T) {
	a := New()

	cfg := overture.NewMergedConfig()
	cfg.Servers["github"] = &overture.ServerSpec{Name: "github", Command: "gh", Args: []string{"mcp"}}
	cfg.Servers["remote"] = &overture.ServerSpec{Name: "remote", URL: "https://mcp.example.com"}
	cfg.Servers["streamed"] = &overture.ServerSpec{
		Name:      "streamed",
		URL:       "https://mcp.example.com/http",
		Transport: overture.TransportHTTP,
	}

	out, err := a.ConvertFromOverture(cfg, "linux")
	if err != nil {
		t.Fatalf("ConvertFromOverture() error = %v", err)
	}

	if def := out.Servers["github"]; def == nil || def.Type != "" {
		t.Errorf("stdio entry = %+v, want no transport field", def)
	}
	if def := out.Servers["remote"]; def == nil || def.URL == "" {
		t.Errorf("sse entry = %+v, want url shape", def)
	}
	if _, ok := out.Servers["streamed"]; ok {
		t.Error("streamable HTTP entry reached a client without HTTP support")
	}
}
