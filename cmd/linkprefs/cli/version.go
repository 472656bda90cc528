package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pandeptwidyaop/linkprefs/internal/client"
	"github.com/pandeptwidyaop/linkprefs/internal/version"
)

var versionRemote bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.GetVersion().String())
		if !versionRemote {
			return nil
		}

		cfg, err := loadConfig("stderr")
		if err != nil {
			return err
		}
		rs := client.NewRemoteStore(client.Config{
			ServerURL: cfg.Client.ServerURL,
			Token:     cfg.Client.Token,
			Timeout:   cfg.Client.Timeout,
		})
		vm, err := rs.CheckVersion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "server %s\n", vm.ServerVersion)
		if vm.Mismatch {
			fmt.Fprintln(out, "warning: client and server versions differ")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionRemote, "remote", false, "also report the server version")
	rootCmd.AddCommand(versionCmd)
}
