package domain

// Service identifies an external provider the CLI holds credentials for.
type Service string

const (
	// ServiceGitHub is the source-control provider (commits, pull requests).
	ServiceGitHub Service = "github"
	// ServiceJira is the issue-tracking provider.
	ServiceJira Service = "jira"
)

// Services returns every known service in display order.
func Services() []Service {
	return []Service{ServiceGitHub, ServiceJira}
}

// Valid returns true if s is a known service.
func (s Service) Valid() bool {
	switch s {
	case ServiceGitHub, ServiceJira:
		return true
	default:
		return false
	}
}

func (s Service) String() string {
	return string(s)
}

// AuthMethod defines how a service is authenticated.
type AuthMethod string

const (
	// AuthMethodNone means no credential is configured.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodEnv means credentials come from environment variables.
	AuthMethodEnv AuthMethod = "env"
	// AuthMethodPAT uses a Personal Access Token (or Jira API token).
	AuthMethodPAT AuthMethod = "pat"
	// AuthMethodOAuth uses OAuth 2.0 tokens with refresh.
	AuthMethodOAuth AuthMethod = "oauth"
)
