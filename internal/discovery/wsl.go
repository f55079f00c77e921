package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/paths"
)

// windowsUsersRoot is where WSL2 exposes Windows user profiles.
const windowsUsersRoot = "/mnt/c/Users"

// wslEnv isolates the environment reads the WSL2 detection needs so tests
// can simulate a WSL2 machine.
type wslEnv struct {
	procVersionPath string
	usersRoot       string
}

func defaultWSLEnv() *wslEnv {
	return &wslEnv{
		procVersionPath: "/proc/version",
		usersRoot:       windowsUsersRoot,
	}
}

// isWSL2 reports whether the process runs inside WSL2. The kernel banner in
// /proc/version carries a "microsoft" marker there; absence of the file or
// the marker means a regular Linux or non-Linux host.
func (e *wslEnv) isWSL2() bool {
	data, err := os.ReadFile(e.procVersionPath)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// profileRoots returns candidate Windows profile directories under the
// mount, skipping the stock system profiles.
func (e *wslEnv) profileRoots() []string {
	entries, err := os.ReadDir(e.usersRoot)
	if err != nil {
		return nil
	}

	var roots []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		switch entry.Name() {
		case "Public", "Default", "Default User", "All Users":
			continue
		}
		roots = append(roots, filepath.Join(e.usersRoot, entry.Name()))
	}
	return roots
}

// probeWSL2 searches Windows profiles on the mount for the client's config
// file or app bundle. Adapter paths are expressed relative to the home
// directory, so each candidate is the Windows-platform path rebased onto a
// profile root.
func (s *Service) probeWSL2(a client.Adapter) *Result {
	roots := append(s.env.profileRoots(), s.opts.ExtraProfileRoots...)
	if len(roots) == 0 {
		return nil
	}

	home := paths.Home()
	if home == "" {
		return nil
	}

	for _, root := range roots {
		configPath := rebase(home, a.DetectConfigPath("windows", ""), root)
		bundlePath := ""
		for _, bundle := range a.BundlePaths("windows") {
			if candidate := rebase(home, bundle, root); candidate != "" && exists(candidate) {
				bundlePath = candidate
				break
			}
		}

		if (configPath != "" && exists(configPath)) || bundlePath != "" {
			s.logger.Debug("client found via wsl2 fallback",
				"client", a.Name(), "profile", root)
			return &Result{
				Client:     a.Name(),
				Status:     StatusFound,
				Source:     SourceWSL2,
				ConfigPath: configPath,
				BundlePath: bundlePath,
				Warnings: []string{
					"found on the Windows side of a WSL2 mount; the client runs under Windows, not this environment",
				},
			}
		}
	}

	return nil
}

// rebase rewrites a home-relative path onto a Windows profile root.
// Paths outside the home directory (such as /Applications bundles) cannot
// be rebased and yield "".
func rebase(home, path, profileRoot string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(home, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.Join(profileRoot, rel)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
