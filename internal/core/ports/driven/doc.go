// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialsStore: Persisted per-service credential records
//   - ConfigStore: Application configuration (OAuth app settings)
//   - Environment: Environment-variable lookup (injected, never ambient)
//   - TokenRefresher: Silent OAuth token refresh for one service
//
// # Optional Interfaces
//
//   - IdentityVerifier: Confirms a freshly minted token authenticates.
//     When nil, login flows skip the verification step.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
