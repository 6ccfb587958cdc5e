// =============================================================================
// Invoice Automation - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'run', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invoice-automation)
//   ├── runCmd (invoice-automation run)
//   ├── validateCmd (invoice-automation validate)
//   └── versionCmd (invoice-automation version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Loading the main configuration for the subcommands
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-automation/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	// Use is the one-line usage message.
	// This is what appears in help text and error messages.
	Use: "invoice-automation",

	// Short is a short description shown in the 'help' output.
	Short: "Invoice Automation - Generate invoice documents from an order spreadsheet",

	// Long is a longer description shown in the 'help <command>' output.
	Long: `Invoice Automation is a CLI tool that sequences the two collaborator
scripts of the invoicing workflow: one extracts structured data from an order
spreadsheet, the other renders that data into finished invoice documents.

One run takes a single input spreadsheet (e.g. JF25001.xlsx) and produces
three document variants next to it:

  CT&INV&PL JF25001 NORMAL.xlsx
  CT&INV&PL JF25001 FOB.xlsx
  CT&INV&PL JF25001 CUSTOM.xlsx

Example Usage:
  invoice-automation run -i JF25001.xlsx          # Generate all three variants
  invoice-automation run -i JF25001.xlsx --dry-run # Show the planned commands
  invoice-automation validate -i JF25001.xlsx      # Check the deployment`,

	// Run is the function that will be executed when the root command is called
	// without any subcommands. In this case, we just print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Execute the root command. If there's an error, print it and exit.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// loadConfig loads the main configuration for a subcommand.
//
// A config file named on the command line must exist. The default file is
// optional: when it is absent the built-in defaults apply, so the tool works
// out of the box from the project root.
func loadConfig() (*config.MainConfig, error) {
	explicit := rootCmd.PersistentFlags().Changed("config")
	return config.Load(cfgFile, explicit)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags shared by all subcommands.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	// Default is "automation.yaml" in the current directory.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the main configuration file (default is automation.yaml)",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
