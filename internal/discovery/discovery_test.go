package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/client/claudedesktop"
	"github.com/thoreinstein/overture/internal/client/cursor"
	"github.com/thoreinstein/overture/internal/detect"
)

func notOnPath(string) (string, error)        { return "", errors.New("not found") }
func statMissing(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

func emptyProber() *detect.Prober {
	return detect.NewProber(detect.WithLookPath(notOnPath), detect.WithStat(statMissing))
}

func testRegistry(t *testing.T) *client.Registry {
	t.Helper()
	r := client.NewRegistry()
	for _, a := range []client.Adapter{cursor.New(), claudedesktop.New()} {
		if err := r.Register(a); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

// fakeWSL points the environment reads at a temp directory shaped like a
// WSL2 machine with one Windows profile.
func fakeWSL(t *testing.T) (*wslEnv, string) {
	t.Helper()
	dir := t.TempDir()

	procVersion := filepath.Join(dir, "version")
	banner := "Linux version 5.15.167.4-microsoft-standard-WSL2 (root@build) #1 SMP"
	if err := os.WriteFile(procVersion, []byte(banner), 0o644); err != nil {
		t.Fatal(err)
	}

	usersRoot := filepath.Join(dir, "Users")
	profile := filepath.Join(usersRoot, "alice")
	for _, sub := range []string{profile, filepath.Join(usersRoot, "Public")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	return &wslEnv{procVersionPath: procVersion, usersRoot: usersRoot}, profile
}

func TestDiscover_Skipped(t *testing.T) {
	s := NewService(testRegistry(t), emptyProber(), Options{
		Overrides: map[string]ClientOverride{"cursor": {Disabled: true}},
	}, nil)

	r := s.Discover(context.Background(), cursor.New(), "linux")
	if r.Status != StatusSkipped {
		t.Errorf("status = %q, want skipped", r.Status)
	}
}

func TestDiscover_Override(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "cursor")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewService(testRegistry(t), emptyProber(), Options{
		Overrides: map[string]ClientOverride{
			"cursor": {BinaryPath: bin},
		},
	}, nil)

	r := s.Discover(context.Background(), cursor.New(), "linux")
	if r.Status != StatusFound || r.Source != SourceOverride {
		t.Fatalf("result = %+v, want found via override", r)
	}
	if r.BinaryPath != bin {
		t.Errorf("BinaryPath = %q", r.BinaryPath)
	}
	if r.ConfigPath == "" {
		t.Error("ConfigPath should fall back to the detected location")
	}
}

func TestDiscover_OverrideMissingFallsThrough(t *testing.T) {
	prober := detect.NewProber(
		detect.WithLookPath(func(name string) (string, error) {
			if name == "cursor" {
				return "/usr/bin/cursor", nil
			}
			return "", errors.New("not found")
		}),
		detect.WithStat(statMissing),
	)

	s := NewService(testRegistry(t), prober, Options{
		Overrides: map[string]ClientOverride{
			"cursor": {BinaryPath: "/nonexistent/cursor"},
		},
	}, nil)

	r := s.Discover(context.Background(), cursor.New(), "linux")
	if r.Status != StatusFound || r.Source != SourceNative {
		t.Fatalf("result = %+v, want the probe pipeline to run past the stale override", r)
	}
	if r.BinaryPath != "/usr/bin/cursor" {
		t.Errorf("BinaryPath = %q, want the probed binary", r.BinaryPath)
	}
}

func TestDiscover_ConfigPathOverrideApplied(t *testing.T) {
	prober := detect.NewProber(
		detect.WithLookPath(func(name string) (string, error) {
			if name == "cursor" {
				return "/usr/bin/cursor", nil
			}
			return "", errors.New("not found")
		}),
		detect.WithStat(statMissing),
	)

	s := NewService(testRegistry(t), prober, Options{
		Overrides: map[string]ClientOverride{
			"cursor": {ConfigPath: "/custom/mcp.json"},
		},
	}, nil)

	r := s.Discover(context.Background(), cursor.New(), "linux")
	if r.Status != StatusFound || r.Source != SourceNative {
		t.Fatalf("result = %+v, want found natively", r)
	}
	if r.ConfigPath != "/custom/mcp.json" {
		t.Errorf("ConfigPath = %q, want the configured location", r.ConfigPath)
	}
}

func TestDiscover_Native(t *testing.T) {
	prober := detect.NewProber(
		detect.WithLookPath(func(name string) (string, error) {
			if name == "cursor" {
				return "/usr/bin/cursor", nil
			}
			return "", errors.New("not found")
		}),
		detect.WithStat(statMissing),
	)

	s := NewService(testRegistry(t), prober, Options{}, nil)

	r := s.Discover(context.Background(), cursor.New(), "linux")
	if r.Status != StatusFound || r.Source != SourceNative {
		t.Fatalf("result = %+v, want found via native probe", r)
	}
	if r.BinaryPath != "/usr/bin/cursor" {
		t.Errorf("BinaryPath = %q", r.BinaryPath)
	}
}

func TestDiscover_NotFound(t *testing.T) {
	s := NewService(testRegistry(t), emptyProber(), Options{Mode: ModeNative}, nil)

	r := s.Discover(context.Background(), claudedesktop.New(), "linux")
	if r.Status != StatusNotFound {
		t.Errorf("status = %q, want not-found", r.Status)
	}
}

func TestDiscover_WSL2Fallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	env, profile := fakeWSL(t)

	// Plant the Windows-side config where the rebased path will land.
	winConfig := filepath.Join(profile, "AppData", "Roaming", "Claude", "claude_desktop_config.json")
	if err := os.MkdirAll(filepath.Dir(winConfig), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(winConfig, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewService(testRegistry(t), emptyProber(), Options{}, nil)
	s.env = env

	r := s.Discover(context.Background(), claudedesktop.New(), "linux")
	if r.Status != StatusFound || r.Source != SourceWSL2 {
		t.Fatalf("result = %+v, want found via wsl2 fallback", r)
	}
	if r.ConfigPath != winConfig {
		t.Errorf("ConfigPath = %q, want %q", r.ConfigPath, winConfig)
	}
	if len(r.Warnings) == 0 {
		t.Error("wsl2 result should warn that the client runs under Windows")
	}
}

func TestDiscover_WSL2DisabledByMode(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	env, profile := fakeWSL(t)
	winConfig := filepath.Join(profile, "AppData", "Roaming", "Claude", "claude_desktop_config.json")
	if err := os.MkdirAll(filepath.Dir(winConfig), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(winConfig, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewService(testRegistry(t), emptyProber(), Options{Mode: ModeNative}, nil)
	s.env = env

	r := s.Discover(context.Background(), claudedesktop.New(), "linux")
	if r.Status != StatusNotFound {
		t.Errorf("status = %q, want not-found with the fallback disabled", r.Status)
	}
}

func TestIsWSL2(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("Linux version 6.1.0-generic"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := &wslEnv{procVersionPath: plain}
	if env.isWSL2() {
		t.Error("isWSL2() = true for a regular kernel banner")
	}

	env.procVersionPath = filepath.Join(dir, "absent")
	if env.isWSL2() {
		t.Error("isWSL2() = true with no /proc/version at all")
	}
}

func TestDiscoverAll_OrderPreserved(t *testing.T) {
	reg := testRegistry(t)
	s := NewService(reg, emptyProber(), Options{Mode: ModeNative}, nil)

	results := s.DiscoverAll(context.Background(), "linux")
	if len(results) != 2 {
		t.Fatalf("results = %d, want one per registered client", len(results))
	}
	if results[0].Client != "cursor" || results[1].Client != "claude-desktop" {
		t.Errorf("order = [%s, %s], want registration order", results[0].Client, results[1].Client)
	}
}
