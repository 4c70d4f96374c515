package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

var logoutCmd = &cobra.Command{
	Use:   "logout <service>",
	Short: "Remove stored credentials for a service",
	Long: `Remove the stored credential record for a service.

Environment variable overrides are unaffected; unset those separately.
Logging out when nothing is stored is not an error.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"github", "jira"},
	RunE:      runLogout,
}

func init() {
	authCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	service := domain.Service(args[0])
	if !service.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownService, args[0])
	}

	if err := credStore.Delete(cmd.Context(), service); err != nil {
		return fmt.Errorf("remove credentials: %w", err)
	}

	cmd.Printf("Logged out of %s\n", service)
	return nil
}
