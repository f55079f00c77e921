package cursor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/overture/internal/overture"
)

func TestDetectConfigPath(t *testing.T) {
	a := New()

	if got := a.DetectConfigPath("linux", "/work/repo"); got != filepath.Join("/work/repo", ".cursor", "mcp.json") {
		t.Errorf("project path = %q", got)
	}
	if got := a.DetectConfigPath("linux", ""); !strings.HasSuffix(got, filepath.Join(".cursor", "mcp.json")) {
		t.Errorf("user path = %q", got)
	}
}

func TestConvertFromOverture_ShapeInferredTransport(t *testing.T) {
	a := New()

	cfg := overture.NewMergedConfig()
	cfg.Servers["local"] = &overture.ServerSpec{Name: "local", Command: "gh", Args: []string{"mcp"}}
	cfg.Servers["remote"] = &overture.ServerSpec{Name: "remote", URL: "https://mcp.example.com"}

	out, err := a.ConvertFromOverture(cfg, "linux")
	if err != nil {
		t.Fatalf("ConvertFromOverture() error = %v", err)
	}

	local := out.Servers["local"]
	if local.Command != "gh" || local.URL != "" || local.Type != "" {
		t.Errorf("local entry = %+v, want command-only shape", local)
	}

	remote := out.Servers["remote"]
	if remote == nil {
		t.Fatal("SSE entry missing; Cursor supports SSE")
	}
	if remote.URL != "https://mcp.example.com" || remote.Command != "" || remote.Type != "" {
		t.Errorf("remote entry = %+v, want url-only shape", remote)
	}
}

func TestSupportsTransport(t *testing.T) {
	a := New()
	if !a.SupportsTransport(overture.TransportStdio) || !a.SupportsTransport(overture.TransportSSE) {
		t.Error("stdio and sse should both be supported")
	}
	if a.SupportsTransport(overture.TransportHTTP) {
		t.Error("streamable HTTP should not be supported")
	}
}
