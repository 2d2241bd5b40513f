package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asaad47/pdf-search/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var short bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case short:
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
			case jsonOut:
				data, err := json.MarshalIndent(version.GetInfo(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print just the version number")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print version info as JSON")

	return cmd
}
