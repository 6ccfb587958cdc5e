// =============================================================================
// Invoice Automation - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Invoice Automation CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   invoice-automation run -i <input.xlsx>  - Generate the invoice documents
//   invoice-automation validate             - Check the deployment
//   invoice-automation version              - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
//   The heavy lifting of a run is done by two external collaborator scripts;
//   this tool sequences them, lays out the per-run workspace, and reports
//   what happened.
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/invoice-automation/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
