// =============================================================================
// Invoice Automation - Run Command
// =============================================================================
//
// This file defines the 'run' command, which is the main command of the tool.
// It drives the full pipeline for one input spreadsheet.
//
// COMMAND USAGE:
//   invoice-automation run -i <input.xlsx> [flags]
//
// FLAGS:
//   --input, -i  : Path to the input order spreadsheet (required)
//   --fob        : Recorded for compatibility; all variants are generated
//   --custom     : Recorded for compatibility; all variants are generated
//   --dry-run    : Report the planned commands without running anything
//
// EXIT CODES:
//   0 - The pipeline ran to completion. Individual document variants may
//       still have failed; the log and the summary report carry the detail.
//   1 - A fatal stage failure aborted the run (bad input, missing assets,
//       failed extraction, missing generator config).
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-automation/internal/config"
	"github.com/ginjaninja78/invoice-automation/internal/logging"
	"github.com/ginjaninja78/invoice-automation/internal/pipeline"
	"github.com/ginjaninja78/invoice-automation/internal/runner"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFile is the path to the input order spreadsheet.
var inputFile string

// fobMode mirrors the --fob flag of the original automation entry point.
var fobMode bool

// customMode mirrors the --custom flag of the original automation entry point.
var customMode bool

// dryRun reports the planned commands without creating directories or
// starting any script.
var dryRun bool

// =============================================================================
// RUN COMMAND DEFINITION
// =============================================================================

// runCmd represents the 'run' command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the invoice pipeline for one input spreadsheet",
	Long: `The run command takes one input order spreadsheet and produces the three
invoice document variants (NORMAL, FOB, CUSTOM) next to it.

The pipeline first derives the output layout from the input file name, then
runs the extraction script to produce the structured data file, and finally
runs the generation script once per variant. All intermediate and final
output lands in a directory named after the input file:

  <input dir>/<identifier>/json_output/      (extracted data)
  <input dir>/<identifier>/invoice_output/   (finished documents)

A variant that fails to generate is logged and recorded in the summary
report; the remaining variants still run and the command exits successfully.
Only failures that make any output impossible abort the run.`,

	// RunE is like Run but returns an error. This is preferred for commands
	// that can fail, as it allows Cobra to handle the error gracefully.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAutomation()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the run command with the root command and sets up flags.
func init() {
	// Add the run command to the root command.
	rootCmd.AddCommand(runCmd)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================
	// Local flags are only available to this command.

	// --input flag: Path to the input order spreadsheet.
	runCmd.Flags().StringVarP(
		&inputFile,
		"input",
		"i",
		"",
		"Path to the input order spreadsheet (e.g. JF25001.xlsx)",
	)
	runCmd.MarkFlagRequired("input")

	// --fob flag: Accepted for compatibility with the original entry point.
	runCmd.Flags().BoolVar(
		&fobMode,
		"fob",
		false,
		"Accepted for compatibility; all three variants are always generated",
	)

	// --custom flag: Accepted for compatibility with the original entry point.
	runCmd.Flags().BoolVar(
		&customMode,
		"custom",
		false,
		"Accepted for compatibility; all three variants are always generated",
	)

	// --dry-run flag: Report the planned commands without running anything.
	runCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Report the planned commands without creating directories or running scripts",
	)
}

// =============================================================================
// MAIN RUN FUNCTION
// =============================================================================

// runAutomation loads the configuration and logging, then hands off to the
// pipeline wiring.
func runAutomation() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	return executeRun(cfg, logger, pipeline.Options{
		InputPath: inputFile,
		FOB:       fobMode,
		Custom:    customMode,
		DryRun:    dryRun,
	})
}

// executeRun wires one correlation-scoped logger through both the runner
// and the driver, so every line of the run, including the command echoes
// and captured collaborator output, carries the same run_id field.
func executeRun(cfg *config.MainConfig, logger log.FieldLogger, opts pipeline.Options) error {
	opts.RunID = uuid.New().String()[:8]
	runLog := logger.WithField("run_id", opts.RunID)

	driver := pipeline.New(cfg, runner.New(cfg.Python, runLog), runLog)

	outcome, err := driver.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	// Variant failures are reported, not fatal. The documents that did
	// generate have already been delivered.
	if failed := outcome.Failed(); len(failed) > 0 && !outcome.DryRun {
		runLog.Warnf("%d of %d document(s) failed to generate; see the log above for details.",
			len(failed), len(outcome.Documents))
	}

	return nil
}
