package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/overture"
)

func init() {
	rootCmd.AddCommand(clientsCmd)
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List the supported clients",
	Long: `List every client overture can sync, with the transports each one
supports and the config file it reads on this platform.

A dash in the CONFIG column means the client has no config location on
this platform (for example Claude Desktop on Linux).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return outputClients(cmd.OutOrStdout())
	},
}

func outputClients(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tTRANSPORTS\tCONFIG")

	for _, a := range registry.All() {
		var supported []string
		for _, t := range overture.Transports() {
			if a.SupportsTransport(t) {
				supported = append(supported, string(t))
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			a.Name(),
			strings.Join(supported, ","),
			orDash(a.DetectConfigPath(currentPlatform(), "")))
	}

	return errors.Wrap(tw.Flush(), "writing client table")
}
