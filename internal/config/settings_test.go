package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestInitDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("version default = %d, want 1", viper.GetInt("version"))
	}
	if viper.GetString("log.format") != "text" {
		t.Errorf("log.format default = %q, want text", viper.GetString("log.format"))
	}
	if viper.GetString("discovery.mode") != "auto" {
		t.Errorf("discovery.mode default = %q, want auto", viper.GetString("discovery.mode"))
	}
}

func TestLoad_NoSettingsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	isolateConfigHome(t)

	Init()

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults when nothing exists", err)
	}
	if s.Discovery.Mode != "auto" {
		t.Errorf("Discovery.Mode = %q", s.Discovery.Mode)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Init()

	if _, err := Load("/definitely/not/here.yaml"); err == nil {
		t.Error("Load() with an explicit missing path should fail")
	}
}

func TestLoad_SettingsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := writeYAML(t, dir, "config.yaml", `
version: 1
log:
  format: json
backup:
  retention_count: 9
discovery:
  mode: native
  clients:
    cursor:
      disabled: true
    claude-desktop:
      binary_path: /opt/claude/claude
`)

	Init()

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Log.Format != "json" {
		t.Errorf("Log.Format = %q", s.Log.Format)
	}
	if s.Backup.RetentionCount != 9 {
		t.Errorf("Backup.RetentionCount = %d", s.Backup.RetentionCount)
	}
	if s.Discovery.Mode != "native" {
		t.Errorf("Discovery.Mode = %q", s.Discovery.Mode)
	}
	if !s.Discovery.Clients["cursor"].Disabled {
		t.Error("cursor should be disabled")
	}
	if s.Discovery.Clients["claude-desktop"].BinaryPath != "/opt/claude/claude" {
		t.Errorf("claude-desktop binary path = %q", s.Discovery.Clients["claude-desktop"].BinaryPath)
	}
}
