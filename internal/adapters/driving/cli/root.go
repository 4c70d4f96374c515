// Package cli wires the cobra command tree for the devpulse binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/devpulse-labs/devpulse-cli/internal/adapters/driven/config/file"
	"github.com/devpulse-labs/devpulse-cli/internal/adapters/driven/github"
	"github.com/devpulse-labs/devpulse-cli/internal/adapters/driven/jira"
	filestore "github.com/devpulse-labs/devpulse-cli/internal/adapters/driven/storage/file"
	keyringstore "github.com/devpulse-labs/devpulse-cli/internal/adapters/driven/storage/keyring"
	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/core/services"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

var version = "dev"

// Shared dependencies, wired once in setupDependencies.
var (
	configStore driven.ConfigStore
	credStore   driven.CredentialsStore
	resolver    *services.ResolverService
	reporter    *services.StatusService
	verifiers   map[domain.Service]driven.IdentityVerifier
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "devpulse",
	Short: "Engineering activity reports from GitHub and Jira",
	Long: `DevPulse generates engineering activity reports by pulling pull
requests, reviews and issues from GitHub and Jira.

Authenticate once with 'devpulse auth login', then generate reports
without re-entering credentials.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return setupDependencies()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
}

// setupDependencies builds the store, provider clients and core
// services. Idempotent so tests can call commands repeatedly.
func setupDependencies() error {
	if resolver != nil {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	credStore, err = newCredentialsStore()
	if err != nil {
		return fmt.Errorf("open credentials store: %w", err)
	}

	env := driven.EnvironmentFunc(os.Getenv)
	refreshers := map[domain.Service]driven.TokenRefresher{
		domain.ServiceGitHub: newGitHubFlow(),
		domain.ServiceJira:   newJiraClient(""),
	}

	resolver = services.NewResolverService(credStore, env, refreshers)
	reporter = services.NewStatusService(credStore, env)
	verifiers = map[domain.Service]driven.IdentityVerifier{
		domain.ServiceGitHub: github.NewVerifier(),
		domain.ServiceJira:   jira.NewVerifier(),
	}
	return nil
}

// newCredentialsStore selects the storage backend. The OS keyring is
// opt-in via config and only used when it actually works on this
// machine.
func newCredentialsStore() (driven.CredentialsStore, error) {
	if configStore.GetString(configfile.KeyStorageBackend) == "keyring" && keyringstore.Available() {
		return keyringstore.NewCredentialsStore(), nil
	}
	return filestore.NewCredentialsStore("")
}

func newGitHubFlow() *github.DeviceFlow {
	return github.NewDeviceFlow(github.DeviceFlowConfig{
		ClientID: configStore.GetString(configfile.KeyGitHubClientID),
		Scopes:   configStore.GetStringSlice(configfile.KeyGitHubScopes),
	})
}

func newJiraClient(redirectURI string) *jira.Client {
	return jira.NewClient(jira.ClientConfig{
		ClientID:     configStore.GetString(configfile.KeyJiraClientID),
		ClientSecret: configStore.GetString(configfile.KeyJiraClientSecret),
		RedirectURI:  redirectURI,
		Scopes:       configStore.GetStringSlice(configfile.KeyJiraScopes),
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
