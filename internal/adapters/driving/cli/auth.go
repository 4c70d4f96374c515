package cli

import (
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub and Jira credentials",
	Long: `Log in to GitHub and Jira, inspect credential status, and log out.

Credentials resolve in a fixed order: environment variables win over
stored OAuth tokens, which win over stored personal access tokens.

Environment overrides:
  GITHUB_TOKEN                              GitHub bearer token
  JIRA_HOST, JIRA_EMAIL, JIRA_API_TOKEN     Jira Basic auth (all three required)

Examples:
  # Interactive OAuth login
  devpulse auth login github
  devpulse auth login jira

  # Store a personal access token instead
  devpulse auth login github --with-token
  devpulse auth login jira --with-token

  # Inspect and remove credentials
  devpulse auth status
  devpulse auth logout github`,
}

func init() {
	rootCmd.AddCommand(authCmd)
}
