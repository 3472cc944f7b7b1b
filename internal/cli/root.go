// Package cli implements the secopsctl command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/cli/client"
)

var rootCmd = &cobra.Command{
	Use:   "secopsctl",
	Short: "Security operations CLI",
	Long: `secopsctl is the command-line interface for the security operations
service of the API gateway.

Manage incidents, inspect statistics, and review security posture and
compliance from your terminal.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("server", defaultServer(), "base URL of the security operations service")
	rootCmd.PersistentFlags().String("token", os.Getenv("SECOPS_TOKEN"), "admin bearer token (default: $SECOPS_TOKEN)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json")
}

func defaultServer() string {
	if s := os.Getenv("SECOPS_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8090"
}

// apiClient builds a client from the persistent flags.
func apiClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	return client.New(server, token)
}
