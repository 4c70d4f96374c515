package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential status for every service",
	Long: `Show the authentication method and token expiry for each service.

Status is read-only: it never refreshes tokens or contacts providers,
so an "expired" access token here may still silently refresh on the
next report run.`,
	RunE: runStatus,
}

func init() {
	authCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	statuses := reporter.Statuses(cmd.Context())

	for _, status := range statuses {
		cmd.Printf("%s\n", status.Service)

		switch status.Method {
		case domain.AuthMethodNone:
			cmd.Println("  Not configured. Run 'devpulse auth login " + status.Service.String() + "'")
		case domain.AuthMethodEnv:
			cmd.Println("  Method: environment variables")
		case domain.AuthMethodPAT:
			cmd.Println("  Method: personal access token")
		case domain.AuthMethodOAuth:
			cmd.Println("  Method: oauth")
			printExpiry(cmd, "Access token", status.AccessTokenExpiresAt)
			printExpiry(cmd, "Refresh token", status.RefreshTokenExpiresAt)
			if !status.Valid {
				cmd.Println("  Expired. Run 'devpulse auth login " + status.Service.String() + "'")
			}
		}
		cmd.Println()
	}
	return nil
}

func printExpiry(cmd *cobra.Command, label string, at time.Time) {
	if at.IsZero() {
		return
	}
	state := "expires"
	if time.Now().After(at) {
		state = "expired"
	}
	cmd.Printf("  %s: %s %s\n", label, state, at.Local().Format("2006-01-02 15:04"))
}
