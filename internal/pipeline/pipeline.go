// =============================================================================
// Invoice Automation - Pipeline Driver
// =============================================================================
//
// This module contains the core orchestration logic. It sequences the two
// collaborator scripts that turn one input spreadsheet into three finished
// document variants.
//
// PIPELINE:
//   1. Resolve the input file and lay out the per-run workspace
//   2. Validate the static assets (scripts, template and config dirs)
//   3. Run the extraction script (spreadsheet -> structured data)
//   4. Verify the expected data file was produced
//   5. Resolve the per-prefix generator config, then run the generation
//      script once per variant (NORMAL, FOB, CUSTOM)
//
// FAILURE POLICY:
//   Stages 1 through 4 and the generator config check are preconditions for
//   any useful output; their failures abort the run with an error. A single
//   variant failing in stage 5 is logged and recorded but never stops the
//   remaining variants and never fails the run.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ginjaninja78/invoice-automation/internal/config"
	"github.com/ginjaninja78/invoice-automation/internal/naming"
	"github.com/ginjaninja78/invoice-automation/internal/preflight"
	"github.com/ginjaninja78/invoice-automation/internal/runner"
	"github.com/ginjaninja78/invoice-automation/internal/types"
	"github.com/ginjaninja78/invoice-automation/pkg/utils"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================
// One sentinel per fatal stage failure, so callers and tests can classify
// an aborted run without parsing messages.

var (
	// ErrInputNotFound reports that the input spreadsheet does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrEmptyPrefix reports an identifier with no alphabetic characters,
	// which cannot be mapped to a generator config.
	ErrEmptyPrefix = errors.New("identifier contains no alphabetic characters")

	// ErrAssetsMissing reports missing static assets.
	ErrAssetsMissing = errors.New("required assets missing")

	// ErrExtractionFailed reports that the extraction script did not
	// complete successfully.
	ErrExtractionFailed = errors.New("extraction script failed")

	// ErrDataFileMissing reports that the extraction script exited cleanly
	// but did not produce the expected data file.
	ErrDataFileMissing = errors.New("extraction produced no data file")
)

// =============================================================================
// OPTIONS AND OUTCOME TYPES
// =============================================================================

// Options configure a single automation run.
type Options struct {
	// InputPath is the input spreadsheet.
	InputPath string

	// RunID is the correlation ID for this run. Callers that scope their
	// logger (and the runner's) with a run_id field pass the same value
	// here so the outcome reports it; when empty, Run derives one.
	RunID string

	// FOB and Custom mirror the command line flags. They are recorded for
	// compatibility with existing callers; every run generates all three
	// variants regardless.
	FOB    bool
	Custom bool

	// DryRun validates and reports the planned commands without creating
	// directories or starting any script.
	DryRun bool
}

// Document describes the outcome of one generated document variant.
type Document struct {
	// Mode is the document variant.
	Mode types.Mode

	// FileName is the document's file name, e.g.
	// "CT&INV&PL JF25001 NORMAL.xlsx".
	FileName string

	// Path is the full output path of the document.
	Path string

	// Generated indicates whether the generation script succeeded for
	// this variant.
	Generated bool

	// Detail carries the failure reason when Generated is false.
	Detail string
}

// RunOutcome represents the outcome of one automation run.
type RunOutcome struct {
	// RunID is the correlation ID attached to every log line of the run.
	RunID string

	// Layout is the derived workspace layout.
	Layout naming.Layout

	// Documents holds one entry per variant, in generation order.
	Documents []Document

	// DryRun indicates the run only reported what it would do.
	DryRun bool

	// Started and Finished bound the run.
	Started  time.Time
	Finished time.Time
}

// Failed returns the variants whose generation did not succeed.
func (o *RunOutcome) Failed() []Document {
	var failed []Document
	for _, doc := range o.Documents {
		if !doc.Generated {
			failed = append(failed, doc)
		}
	}
	return failed
}

// =============================================================================
// DRIVER STRUCTURE
// =============================================================================

// Driver sequences the collaborator scripts for one input file.
type Driver struct {
	// cfg is the application configuration.
	cfg *config.MainConfig

	// run executes the collaborator scripts.
	run runner.Runner

	// log receives every line the run reports.
	log log.FieldLogger
}

// New creates a Driver.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - run: The script runner. Tests substitute a scripted fake here.
//   - logger: The run logger.
func New(cfg *config.MainConfig, run runner.Runner, logger log.FieldLogger) *Driver {
	return &Driver{
		cfg: cfg,
		run: run,
		log: logger,
	}
}

// =============================================================================
// MAIN RUN FUNCTION
// =============================================================================

// Run executes the automation pipeline for one input file.
//
// RETURNS:
//   - The run outcome, with one Document per variant. It is nil when a
//     fatal stage failure aborted the run.
//   - An error for fatal stage failures only. Individual variant failures
//     are recorded in the outcome and do not produce an error.
func (d *Driver) Run(ctx context.Context, opts Options) (*RunOutcome, error) {
	started := time.Now()
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()[:8]
	}
	runLog := d.log.WithField("run_id", runID)

	runLog.Infof("Starting automation for input file: %s", opts.InputPath)
	if opts.DryRun {
		runLog.Info("Dry run: no directories will be created and no scripts will be started.")
	}

	// =========================================================================
	// STEP 1: RESOLVE INPUT AND LAY OUT WORKSPACE
	// =========================================================================
	// Derive every name and path first. The empty-prefix check must come
	// before any directory is created: a run that cannot be mapped to a
	// generator config must leave the filesystem untouched.

	absInput, err := filepath.Abs(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input path: %w", err)
	}
	if !utils.FileExists(absInput) {
		runLog.Errorf("Input file not found at %s", absInput)
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, absInput)
	}

	layout := naming.NewLayout(absInput, d.cfg.DataSubdir, d.cfg.DocumentSubdir)
	runLog.Infof("Identifier: %s (prefix %q)", layout.Identifier, layout.Prefix)

	if layout.Prefix == "" {
		runLog.Errorf("Identifier %q contains no alphabetic characters; cannot select a generator config.", layout.Identifier)
		return nil, fmt.Errorf("%w: %s", ErrEmptyPrefix, layout.Identifier)
	}

	if opts.DryRun {
		runLog.Infof("Would create output directories under %s", layout.RootDir)
	} else {
		if err := utils.EnsureDirectories(layout.RootDir, layout.DataDir, layout.DocumentDir); err != nil {
			return nil, err
		}
		runLog.Debugf("Workspace ready under %s", layout.RootDir)
	}

	// =========================================================================
	// STEP 2: VALIDATE ASSETS
	// =========================================================================
	// Every missing asset is logged before the run aborts, so one failed
	// run is enough to see the whole state of a broken deployment.

	if problems := preflight.CheckAssets(d.cfg); len(problems) > 0 {
		for _, p := range problems {
			runLog.Errorf("%s", p)
		}
		return nil, fmt.Errorf("%w: %d problem(s)", ErrAssetsMissing, len(problems))
	}

	// =========================================================================
	// STEP 3: RUN EXTRACTION SCRIPT
	// =========================================================================
	// The extraction script converts the spreadsheet into the structured
	// data file the generator consumes. It runs from its own directory so
	// its relative imports and assets resolve.

	extractScript := d.cfg.ExtractScriptPath()
	extractReq := runner.Request{
		Script: extractScript,
		Args:   []string{"--input-excel", absInput, "--output-dir", layout.DataDir},
		Dir:    filepath.Dir(extractScript),
	}

	if opts.DryRun {
		logPlannedCommand(runLog, d.cfg.Python, extractReq)
	} else {
		if res := d.run.Execute(ctx, extractReq); !res.Success() {
			runLog.Error("Extraction step failed; aborting run.")
			return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, failureDetail(res))
		}
	}

	// =========================================================================
	// STEP 4: VERIFY EXTRACTION OUTPUT
	// =========================================================================
	// A clean exit is not proof of output. The generator needs exactly one
	// file, so its absence aborts the run here with a precise message.

	dataFile := layout.DataFilePath()
	if opts.DryRun {
		runLog.Infof("Dry run: skipping verification of %s", dataFile)
	} else {
		if !utils.FileExists(dataFile) {
			runLog.Errorf("Expected data file was not created: %s", dataFile)
			return nil, fmt.Errorf("%w: %s", ErrDataFileMissing, dataFile)
		}
		runLog.Infof("Extraction complete: %s", dataFile)
	}

	// =========================================================================
	// STEP 5: GENERATE DOCUMENT VARIANTS
	// =========================================================================
	// The per-prefix generator config is checked once, before the first
	// variant. Inside the loop a failed variant is recorded and the loop
	// moves on to the remaining variants.

	generatorConfig, err := preflight.GeneratorConfigPath(d.cfg, layout.Prefix)
	if err != nil {
		runLog.Errorf("Generator config not found at %s", generatorConfig)
		return nil, err
	}
	runLog.Infof("Using generator config: %s", generatorConfig)

	if opts.FOB || opts.Custom {
		runLog.Debug("Mode flags are recorded for compatibility; all three variants are always generated.")
	}

	outcome := &RunOutcome{
		RunID:   runID,
		Layout:  layout,
		DryRun:  opts.DryRun,
		Started: started,
	}

	generateScript := d.cfg.GenerateScriptPath()
	for _, mode := range types.AllModes() {
		runLog.Infof("--- Processing %s mode ---", mode.Suffix())

		doc := Document{
			Mode:     mode,
			FileName: naming.DocumentFileName(d.cfg.DocumentTag, layout.Identifier, mode, d.cfg.DocumentExt),
			Path:     layout.DocumentPath(d.cfg.DocumentTag, mode, d.cfg.DocumentExt),
		}

		args := []string{
			dataFile,
			"--output", doc.Path,
			"--templatedir", d.cfg.TemplateDirPath(),
			"--configdir", d.cfg.ConfigDirPath(),
		}
		if flag := mode.Flag(); flag != "" {
			args = append(args, flag)
		}

		genReq := runner.Request{
			Script: generateScript,
			Args:   args,
			Dir:    filepath.Dir(generateScript),
		}

		switch {
		case opts.DryRun:
			logPlannedCommand(runLog, d.cfg.Python, genReq)
			doc.Detail = "dry run"
		default:
			if res := d.run.Execute(ctx, genReq); res.Success() {
				doc.Generated = true
			} else {
				doc.Detail = failureDetail(res)
				runLog.Errorf("Failed to generate invoice for %s mode.", mode.Suffix())
			}
		}

		outcome.Documents = append(outcome.Documents, doc)
	}

	// =========================================================================
	// COMPLETION
	// =========================================================================
	// The closing banner always names all three documents; the per-variant
	// truth lives in the outcome and the summary report. Downstream tooling
	// matches on these exact lines.

	runLog.Info("--- Automation Completed Successfully ---")
	runLog.Infof("All outputs saved in directory: %s", layout.RootDir)
	runLog.Info("Generated three versions:")
	for i, doc := range outcome.Documents {
		runLog.Infof("%d. %s: %s", i+1, doc.Mode.Label(), doc.FileName)
	}

	outcome.Finished = time.Now()

	if !opts.DryRun && d.cfg.SummaryReportEnabled() {
		if err := writeSummaryReport(outcome); err != nil {
			// A missing report never invalidates delivered documents.
			runLog.Warnf("Failed to write summary report: %v", err)
		}
	}

	return outcome, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// logPlannedCommand reports the exact command a dry run would execute.
func logPlannedCommand(runLog log.FieldLogger, python string, req runner.Request) {
	parts := append([]string{python, req.Script}, req.Args...)
	runLog.Infof("+ %s", strings.Join(parts, " "))
}

// failureDetail renders a runner result as a short failure reason.
func failureDetail(res runner.Result) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}
