package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/overture/internal/detect"
	"github.com/thoreinstein/overture/internal/discovery"
	"github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/logging"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which clients are installed",
	Long: `Probe the machine for every supported client and report what was
found: binary path, version, app bundle, and the config file each
client reads.

Inside WSL2, clients installed on the Windows side are reported with a
wsl2-fallback source. Discovery settings in config.yaml can disable
clients or pin their locations.

Examples:
  # Human-readable overview
  overture status

  # JSON output for scripting
  overture status --json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	service := discovery.NewService(registry, detect.NewProber(detect.WithLogger(logger)),
		discoveryOptions(), logger)

	results := service.DiscoverAll(cmd.Context(), currentPlatform())

	if len(clientFlag) > 0 {
		results = filterResults(results, clientFlag)
	}

	if statusJSON {
		return outputStatusJSON(cmd.OutOrStdout(), results)
	}
	return outputStatusTable(cmd.OutOrStdout(), results)
}

// discoveryOptions translates the loaded settings into discovery inputs.
func discoveryOptions() discovery.Options {
	opts := discovery.Options{Mode: discovery.ModeAuto}
	if settings == nil {
		return opts
	}

	if settings.Discovery.Mode != "" {
		opts.Mode = discovery.Mode(settings.Discovery.Mode)
	}
	opts.ExtraProfileRoots = settings.Discovery.ExtraProfileRoots

	if len(settings.Discovery.Clients) > 0 {
		opts.Overrides = make(map[string]discovery.ClientOverride, len(settings.Discovery.Clients))
		for name, c := range settings.Discovery.Clients {
			opts.Overrides[name] = discovery.ClientOverride{
				Disabled:   c.Disabled,
				BinaryPath: c.BinaryPath,
				ConfigPath: c.ConfigPath,
			}
		}
	}

	return opts
}

func filterResults(results []*discovery.Result, names []string) []*discovery.Result {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}
	filtered := make([]*discovery.Result, 0, len(results))
	for _, r := range results {
		if keep[r.Client] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func outputStatusTable(w io.Writer, results []*discovery.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tSTATUS\tSOURCE\tVERSION\tCONFIG")

	for _, r := range results {
		status := string(r.Status)
		switch r.Status {
		case discovery.StatusFound:
			status = colorGreen + status + colorReset
		case discovery.StatusNotFound:
			status = colorGray + status + colorReset
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Client, status, orDash(string(r.Source)), orDash(r.Version), orDash(r.ConfigPath))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing status table")
	}

	for _, r := range results {
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "%swarning:%s %s: %s\n", colorYellow, colorReset, r.Client, warning)
		}
	}

	return nil
}

type statusJSONEntry struct {
	Status     string   `json:"status"`
	Source     string   `json:"source,omitempty"`
	BinaryPath string   `json:"binary_path,omitempty"`
	BundlePath string   `json:"bundle_path,omitempty"`
	ConfigPath string   `json:"config_path,omitempty"`
	Version    string   `json:"version,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

func outputStatusJSON(w io.Writer, results []*discovery.Result) error {
	out := struct {
		Version string                     `json:"version"`
		Clients map[string]statusJSONEntry `json:"clients"`
	}{
		Version: version,
		Clients: make(map[string]statusJSONEntry, len(results)),
	}

	for _, r := range results {
		out.Clients[r.Client] = statusJSONEntry{
			Status:     string(r.Status),
			Source:     string(r.Source),
			BinaryPath: r.BinaryPath,
			BundlePath: r.BundlePath,
			ConfigPath: r.ConfigPath,
			Version:    r.Version,
			Warnings:   r.Warnings,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding status")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
