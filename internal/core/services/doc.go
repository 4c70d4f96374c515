// Package services implements the driving port interfaces.
// Services contain the core business logic (credential precedence,
// expiry math, status aggregation) and orchestrate calls to driven
// ports (adapters).
package services
