package main

import (
	"github.com/spf13/cobra"

	service "github.com/kaspa-ecosystem/discovery/internal/app"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the preference profile derived from the stored interactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd.Context(), cmd, func(svc *service.Service) error {
			return printJSON(cmd.OutOrStdout(), svc.Discovery().Profile())
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
