package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/devpulse-labs/devpulse-cli/internal/adapters/driven/config/file"
	"github.com/devpulse-labs/devpulse-cli/internal/adapters/driving/oauth"
	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/services"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

const defaultCallbackPort = 8765

var loginWithToken bool

var loginCmd = &cobra.Command{
	Use:   "login <service>",
	Short: "Authenticate with GitHub or Jira",
	Long: `Authenticate with a service and store the credential locally.

GitHub uses the OAuth device flow: you get a short code to enter at
github.com in your browser. Jira opens your browser for Atlassian's
consent screen and captures the redirect on a local port.

With --with-token, no browser is involved: you paste a GitHub personal
access token, or a Jira host, email and API token.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"github", "jira"},
	RunE:      runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginWithToken, "with-token", false, "Store a personal access token instead of running OAuth")
	authCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	service := domain.Service(args[0])
	if !service.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownService, args[0])
	}

	ctx := cmd.Context()

	if loginWithToken {
		return runTokenLogin(ctx, cmd, service)
	}

	switch service {
	case domain.ServiceGitHub:
		return runGitHubLogin(ctx, cmd)
	case domain.ServiceJira:
		return runJiraLogin(ctx, cmd)
	}
	return nil
}

func runGitHubLogin(ctx context.Context, cmd *cobra.Command) error {
	if configStore.GetString(configfile.KeyGitHubClientID) == "" {
		return fmt.Errorf("GitHub OAuth client ID not configured: set auth.github.client_id in %s", configStore.Path())
	}

	flow := newGitHubFlow()

	auth, err := flow.RequestCode(ctx)
	if err != nil {
		return fmt.Errorf("start device flow: %w", err)
	}

	cmd.Println()
	cmd.Printf("First, copy your one-time code: %s\n", auth.UserCode)
	cmd.Printf("Then open %s and enter it.\n", auth.VerificationURI)
	cmd.Println()
	if err := oauth.OpenBrowser(auth.VerificationURI); err != nil {
		logger.Debug("Could not open browser: %v", err)
	}
	cmd.Println("Waiting for authorization...")

	creds, err := flow.PollToken(ctx, auth)
	if err != nil {
		return fmt.Errorf("github authorization: %w", err)
	}

	if err := saveOAuth(ctx, domain.ServiceGitHub, creds); err != nil {
		return err
	}
	reportLogin(ctx, cmd, domain.ServiceGitHub)
	return nil
}

func runJiraLogin(ctx context.Context, cmd *cobra.Command) error {
	if configStore.GetString(configfile.KeyJiraClientID) == "" ||
		configStore.GetString(configfile.KeyJiraClientSecret) == "" {
		return fmt.Errorf("Jira OAuth app not configured: set auth.jira.client_id and auth.jira.client_secret in %s", configStore.Path())
	}

	state, err := services.GenerateState()
	if err != nil {
		return fmt.Errorf("generate state: %w", err)
	}

	port := configStore.GetInt(configfile.KeyJiraCallbackPort)
	if port == 0 {
		port = defaultCallbackPort
	}

	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return err
	}
	defer func() { _ = server.Stop() }()

	client := newJiraClient(server.RedirectURI())

	authURL, err := client.AuthorizationURL(state)
	if err != nil {
		return err
	}

	cmd.Println()
	cmd.Println("Opening your browser for Atlassian authorization...")
	cmd.Printf("If nothing happens, open this URL yourself:\n\n  %s\n\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Debug("Could not open browser: %v", err)
	}
	cmd.Println("Waiting for authorization...")

	code, err := server.WaitForCode(ctx, 0)
	if err != nil {
		return fmt.Errorf("jira authorization: %w", err)
	}

	creds, err := client.CompleteFlow(ctx, code)
	if err != nil {
		return fmt.Errorf("jira authorization: %w", err)
	}

	if err := saveOAuth(ctx, domain.ServiceJira, creds); err != nil {
		return err
	}
	cmd.Printf("Connected to %s\n", creds.CloudURL)
	reportLogin(ctx, cmd, domain.ServiceJira)
	return nil
}

func runTokenLogin(ctx context.Context, cmd *cobra.Command, service domain.Service) error {
	var pat domain.PATCredentials

	switch service {
	case domain.ServiceGitHub:
		token, err := promptSecret(cmd, "Paste your GitHub personal access token: ")
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("%w: token required", domain.ErrInvalidInput)
		}
		pat.Token = token

	case domain.ServiceJira:
		host, err := promptLine(cmd, "Jira host (e.g. acme.atlassian.net): ")
		if err != nil {
			return err
		}
		email, err := promptLine(cmd, "Email: ")
		if err != nil {
			return err
		}
		token, err := promptSecret(cmd, "API token: ")
		if err != nil {
			return err
		}
		if host == "" || email == "" || token == "" {
			return fmt.Errorf("%w: host, email and API token are all required", domain.ErrInvalidInput)
		}
		pat.Host = host
		pat.Email = email
		pat.APIToken = token
	}

	record := domain.CredentialRecord{
		Method:    domain.AuthMethodPAT,
		PAT:       &pat,
		UpdatedAt: time.Now(),
	}
	if err := credStore.Save(ctx, service, record); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	reportLogin(ctx, cmd, service)
	return nil
}

func saveOAuth(ctx context.Context, service domain.Service, creds *domain.OAuthCredentials) error {
	record := domain.CredentialRecord{
		Method:    domain.AuthMethodOAuth,
		OAuth:     creds,
		UpdatedAt: time.Now(),
	}
	if err := credStore.Save(ctx, service, record); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// reportLogin confirms the stored credential actually works. Failure
// here does not undo the login; the credential is saved either way.
func reportLogin(ctx context.Context, cmd *cobra.Command, service domain.Service) {
	resolved, err := resolver.Resolve(ctx, service)
	if err != nil || resolved == nil {
		cmd.Printf("Credentials for %s saved.\n", service)
		return
	}
	identity, err := verifiers[service].Verify(ctx, *resolved)
	if err != nil {
		logger.Warn("Credential verification failed: %v", err)
		cmd.Printf("Credentials for %s saved, but verification failed: %v\n", service, err)
		return
	}
	cmd.Printf("Logged in to %s as %s\n", service, identity)
}

// promptSecret reads a line without echoing when stdin is a terminal.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return readLine()
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	return readLine()
}

func readLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
