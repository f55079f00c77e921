package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/overture/internal/backup"
	"github.com/thoreinstein/overture/internal/config"
	"github.com/thoreinstein/overture/internal/detect"
	"github.com/thoreinstein/overture/internal/discovery"
	"github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/logging"
	"github.com/thoreinstein/overture/internal/overture"
	syncengine "github.com/thoreinstein/overture/internal/sync"
)

var (
	syncDryRun      bool
	syncForce       bool
	syncProject     string
	syncInteractive bool
)

func init() {
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false,
		"stage output under the state directory instead of writing live configs")
	syncCmd.Flags().BoolVar(&syncForce, "force", false,
		"proceed past unsupported-transport entries and replace configs that do not parse")
	syncCmd.Flags().StringVar(&syncProject, "project", "",
		"project root; merges its .overture.yaml and targets project-scope configs")
	syncCmd.Flags().BoolVarP(&syncInteractive, "interactive", "i", false,
		"pick the target clients interactively")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply server definitions to client configs",
	Long: `Apply the merged server definitions to every target client's native
config file.

The user-global servers.yaml is merged with the project-local
.overture.yaml (when --project is given); a server defined in both
takes the project definition. Each client receives only the servers it
is eligible for, in its own config shape, with all unrelated keys in
the client's file preserved.

Before the first write to an existing file, a timestamped backup is
stored under the state directory. Runs are serialized with a process
lock; a second sync fails fast while the first is running.

Examples:
  # Preview without writing
  overture sync --dry-run

  # Sync everything
  overture sync

  # Sync only Cursor and VS Code
  overture sync -c cursor -c vscode

  # Sync a project's configs
  overture sync --project .`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	cfg, err := config.LoadServers(syncProject)
	if err != nil {
		return errors.NewConfigError(err)
	}

	targets := clientFlag
	if syncInteractive {
		targets, err = pickClients(registry.Names())
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No clients selected.")
			return nil
		}
	}

	engine := syncengine.NewEngine(registry, newBackupManager(cfg),
		syncengine.WithLogger(logger))

	opts := syncengine.Options{
		DryRun:      syncDryRun,
		Force:       syncForce,
		Clients:     targets,
		ProjectRoot: syncProject,
		Platform:    currentPlatform(),
	}

	// Default target selection consults discovery so a client that is not
	// installed (or disabled in discovery settings) is never written.
	// Explicitly named clients sync regardless.
	if len(targets) == 0 {
		service := discovery.NewService(registry, detect.NewProber(detect.WithLogger(logger)),
			discoveryOptions(), logger)
		opts.NotInstalled = notInstalledClients(service.DiscoverAll(cmd.Context(), currentPlatform()))
	}

	result, err := engine.Sync(cmd.Context(), cfg, opts)
	if err != nil {
		if errors.Is(err, errors.ErrLockHeld) {
			return errors.NewSystemError(err, "Wait for the running sync to finish, or remove a stale lock from the state directory")
		}
		return err
	}

	printSyncResult(cmd.OutOrStdout(), result)

	if !result.Ok() {
		return errors.NewExitError(
			errors.Newf("%d client(s) failed", len(result.Failed())), errors.ExitSystem)
	}
	return nil
}

// notInstalledClients collects every client discovery did not end in found,
// covering both not-found probes and clients disabled in settings.
func notInstalledClients(results []*discovery.Result) []string {
	var names []string
	for _, r := range results {
		if r.Status != discovery.StatusFound {
			names = append(names, r.Client)
		}
	}
	return names
}

// newBackupManager builds the backup manager from settings and the merged
// configuration's sync policy. The configuration wins on retention so a
// project can pin its own policy.
func newBackupManager(cfg *overture.MergedConfig) *backup.Manager {
	var opts []backup.Option
	if settings != nil {
		opts = append(opts,
			backup.WithBackupDir(settings.Backup.Dir),
			backup.WithRetentionCount(settings.Backup.RetentionCount))
	}
	if cfg.Sync.RetentionCount > 0 {
		opts = append(opts, backup.WithRetentionCount(cfg.Sync.RetentionCount))
	}
	return backup.NewManager(opts...)
}

func printSyncResult(w io.Writer, result *syncengine.Result) {
	if result.DryRun {
		fmt.Fprintln(w, "Dry run: no live config files were written.")
	}

	for _, cr := range result.Clients {
		switch {
		case cr.Err != nil:
			fmt.Fprintf(w, "%s✗%s %s: %v\n", colorYellow, colorReset, cr.Client, cr.Err)
		case !cr.Diff.HasChanges():
			fmt.Fprintf(w, "%s✓%s %s: already in sync\n", colorGreen, colorReset, cr.Client)
		default:
			fmt.Fprintf(w, "%s✓%s %s: %s\n", colorGreen, colorReset, cr.Client, describeDiff(cr.Diff))
			if cr.ConfigPath != "" {
				fmt.Fprintf(w, "  %s%s%s\n", colorGray, cr.ConfigPath, colorReset)
			}
			if cr.BackupID != "" {
				fmt.Fprintf(w, "  %sbackup %s%s\n", colorGray, cr.BackupID, colorReset)
			}
		}
		for _, warning := range cr.Warnings {
			fmt.Fprintf(w, "  %swarning:%s %s\n", colorYellow, colorReset, warning)
		}
	}
}

// describeDiff renders a diff as "2 added, 1 removed, 3 changed", dropping
// empty categories.
func describeDiff(d syncengine.Diff) string {
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(d.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	return strings.Join(parts, ", ")
}
