// =============================================================================
// Invoice Automation - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks a deployment
// without running any collaborator script. It answers the question "would a
// run of this input work here?" before the slow part starts.
//
// COMMAND USAGE:
//   invoice-automation validate [-i <input.xlsx>]
//
// CHECKS:
//   Always:
//     - The configured interpreter is on PATH
//     - The extraction and generation scripts exist
//     - The template and generator config directories exist
//   With --input:
//     - The input file exists and opens as a workbook
//     - Its identifier maps to a generator config that exists
//
// EXIT CODES:
//   0 - Every check passed.
//   1 - One or more checks failed. Every failure is reported, not just
//       the first one.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-automation/internal/config"
	"github.com/ginjaninja78/invoice-automation/internal/logging"
	"github.com/ginjaninja78/invoice-automation/internal/naming"
	"github.com/ginjaninja78/invoice-automation/internal/preflight"
	"github.com/ginjaninja78/invoice-automation/internal/workbook"
	"github.com/ginjaninja78/invoice-automation/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// validateInput is an optional input spreadsheet to validate along with the
// deployment itself.
var validateInput string

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the deployment and optionally one input file",
	Long: `The validate command checks everything a run depends on without starting
any script: the interpreter, the collaborator scripts, the template and
generator config directories.

When an input file is given, it additionally checks that the file exists,
that it opens as a spreadsheet workbook, and that its name maps to a
generator configuration that is actually present.

All failures are reported in one pass so a broken deployment can be fixed
in one round trip.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the validate command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(validateCmd)

	// --input flag: Optional input spreadsheet to validate.
	validateCmd.Flags().StringVarP(
		&validateInput,
		"input",
		"i",
		"",
		"Optional input spreadsheet to validate against the deployment",
	)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// runValidate loads the configuration and logging, then hands off to the
// check sequence.
func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	baseLogger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	return executeValidate(cfg, baseLogger, validateInput)
}

// executeValidate performs every check and reports each result as an OK or
// FAIL line. It returns an error when at least one check failed.
func executeValidate(cfg *config.MainConfig, baseLogger log.FieldLogger, input string) error {
	// The same correlation field the pipeline attaches, so validate output
	// filed next to run output stays attributable.
	logger := baseLogger.WithField("run_id", uuid.New().String()[:8])

	failures := 0

	// =========================================================================
	// DEPLOYMENT CHECKS
	// =========================================================================

	if err := preflight.CheckInterpreter(cfg); err != nil {
		logger.Errorf("FAIL %v", err)
		failures++
	} else {
		logger.Infof("OK   Interpreter: %s", cfg.Python)
	}

	problems := preflight.CheckAssets(cfg)
	for _, p := range problems {
		logger.Errorf("FAIL %s", p)
		failures++
	}
	if len(problems) == 0 {
		logger.Info("OK   All required scripts and directories are present.")
	}

	// =========================================================================
	// INPUT FILE CHECKS
	// =========================================================================

	if input != "" {
		absInput, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("failed to resolve input path: %w", err)
		}

		if !utils.FileExists(absInput) {
			logger.Errorf("FAIL Input file not found at %s", absInput)
			failures++
		} else {
			logger.Infof("OK   Input file: %s", absInput)

			identifier := naming.Identifier(absInput)
			prefix := naming.Prefix(identifier)
			if prefix == "" {
				logger.Errorf("FAIL Identifier %q contains no alphabetic characters; no generator config can be selected.", identifier)
				failures++
			} else {
				logger.Infof("OK   Identifier %s maps to prefix %s", identifier, prefix)

				if path, cfgErr := preflight.GeneratorConfigPath(cfg, prefix); cfgErr != nil {
					logger.Errorf("FAIL Generator config not found at %s", path)
					failures++
				} else {
					logger.Infof("OK   Generator config: %s", path)
				}
			}

			// The run pipeline treats the spreadsheet as opaque; this is the
			// one place the tool opens it, to catch corrupt files early.
			if info, probeErr := workbook.Probe(absInput); probeErr != nil {
				logger.Errorf("FAIL Workbook did not open: %v", probeErr)
				failures++
			} else {
				logger.Infof("OK   Workbook opens: %d sheet(s), first sheet %q with %d row(s)",
					len(info.Sheets), info.Sheets[0], info.FirstSheetRows)
			}
		}
	}

	// =========================================================================
	// VERDICT
	// =========================================================================

	if failures > 0 {
		return fmt.Errorf("validation failed with %d problem(s)", failures)
	}

	logger.Info("Validation passed.")
	return nil
}
