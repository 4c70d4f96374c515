// Package domain defines the core business entities for DevPulse auth.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Service: An external provider (GitHub, Jira)
//   - CredentialRecord: A persisted credential (OAuth or PAT variant)
//   - ResolvedAuth: An ephemeral ready-to-use credential
//   - ServiceStatus: A read-only per-service auth summary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
