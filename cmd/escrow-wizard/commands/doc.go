// Package commands defines the escrow-wizard CLI.
//
// Commands
//
//   - create   Drive the escrow creation wizard from flags and fund it
//   - fees     Print the fee summary for a milestone total
//   - onboard  Drive the KYC/KYB onboarding wizard from flags
//
// # Implementation
//
// The root command loads configuration, builds the logger, the wizard
// registry and the observability providers before any subcommand runs.
// Subcommands walk their wizard step by step exactly as an interactive
// session would, so a rejected step prints the same field messages a form
// would show.
package commands
