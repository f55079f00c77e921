package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/overture/internal/backup"
	"github.com/thoreinstein/overture/internal/errors"
)

func init() {
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage client config backups",
	Long: `List and restore the config snapshots sync takes before rewriting a
client's file.

Backups live under the state directory, grouped by client, and are
pruned past the retention count after each sync.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups per client",
	Example: `  # All clients
  overture backups list

  # One client
  overture backups list -c cursor`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names := clientFlag
		if len(names) == 0 {
			names = registry.Names()
		}
		return outputBackups(cmd.OutOrStdout(), settingsBackupManager(), names)
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <client> <backup-id>",
	Short: "Restore a client config from a backup",
	Long: `Copy a backed up config file back to its original location. The
stored copy's hash is verified against the manifest first; a corrupted
backup is never restored.`,
	Example: `  overture backups restore cursor 20260830T142001`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientName, backupID := args[0], args[1]

		if _, err := registry.Lookup(clientName); err != nil {
			return errors.NewUserError(err, "Run 'overture clients' to see the supported clients")
		}

		mgr := settingsBackupManager()
		if err := mgr.Restore(clientName, backupID); err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(err, "Run 'overture backups list' to see available backups")
			}
			return errors.NewSystemError(err, "The original file was not modified")
		}

		manifest, err := mgr.Get(clientName, backupID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from backup %s\n",
			manifest.OriginalPath, backupID)
		return nil
	},
}

// settingsBackupManager builds a backup manager from settings alone, for
// commands that run outside a sync (no merged configuration in hand).
func settingsBackupManager() *backup.Manager {
	var opts []backup.Option
	if settings != nil {
		opts = append(opts,
			backup.WithBackupDir(settings.Backup.Dir),
			backup.WithRetentionCount(settings.Backup.RetentionCount))
	}
	return backup.NewManager(opts...)
}

func outputBackups(w io.Writer, mgr *backup.Manager, clients []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tBACKUP\tCREATED\tFILE")

	found := false
	for _, name := range clients {
		manifests, err := mgr.List(name)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				continue
			}
			return err
		}
		found = true
		for _, m := range manifests {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				name, m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"), m.OriginalPath)
		}
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing backup table")
	}
	if !found {
		fmt.Fprintln(w, "No backups found.")
	}
	return nil
}
