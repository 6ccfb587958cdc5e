package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-automation/internal/config"
	"github.com/ginjaninja78/invoice-automation/internal/naming"
	"github.com/ginjaninja78/invoice-automation/internal/preflight"
	"github.com/ginjaninja78/invoice-automation/internal/runner"
)

// =============================================================================
// TEST DOUBLES AND FIXTURES
// =============================================================================

// fakeRunner records every request and answers with a scripted handler.
// The default handler reports success without touching the filesystem.
type fakeRunner struct {
	calls   []runner.Request
	handler func(req runner.Request) runner.Result
}

func (f *fakeRunner) Execute(_ context.Context, req runner.Request) runner.Result {
	f.calls = append(f.calls, req)
	if f.handler != nil {
		return f.handler(req)
	}
	return runner.Result{ExitCode: 0}
}

// fixture wires a complete project scaffold, an input spreadsheet, a fake
// runner, and a capturing logger into a ready Driver.
type fixture struct {
	cfg       *config.MainConfig
	fake      *fakeRunner
	hook      *test.Hook
	driver    *Driver
	inputPath string
	layout    naming.Layout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "create_json"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "invoice_gen", "TEMPLATE"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "invoice_gen", "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "create_json", "main.py"), []byte("print()\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "invoice_gen", "generate_invoice.py"), []byte("print()\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "invoice_gen", "config", "JF_config.json"), []byte("{}"), 0644))

	inputDir := t.TempDir()
	inputPath := filepath.Join(inputDir, "JF25001.xlsx")
	require.NoError(t, os.WriteFile(inputPath, []byte("workbook bytes"), 0644))

	cfg := config.Default()
	cfg.ProjectRoot = root

	fake := &fakeRunner{}
	logger, hook := test.NewNullLogger()

	return &fixture{
		cfg:       cfg,
		fake:      fake,
		hook:      hook,
		driver:    New(cfg, fake, logger),
		inputPath: inputPath,
		layout:    naming.NewLayout(inputPath, cfg.DataSubdir, cfg.DocumentSubdir),
	}
}

// succeedAll scripts the fake so extraction drops the expected data file
// and every invocation succeeds, the way healthy collaborators behave.
func (f *fixture) succeedAll(t *testing.T) {
	t.Helper()
	f.fake.handler = func(req runner.Request) runner.Result {
		if req.Script == f.cfg.ExtractScriptPath() {
			require.NoError(t, os.WriteFile(f.layout.DataFilePath(), []byte("{}"), 0644))
		}
		return runner.Result{ExitCode: 0}
	}
}

func (f *fixture) run(t *testing.T, opts Options) (*RunOutcome, error) {
	t.Helper()
	return f.driver.Run(context.Background(), opts)
}

// loggedLines joins every captured log message for substring assertions.
func (f *fixture) loggedLines() string {
	var lines []string
	for _, entry := range f.hook.AllEntries() {
		lines = append(lines, entry.Message)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// HAPPY PATH
// =============================================================================

func TestRunHappyPath(t *testing.T) {
	f := newFixture(t)
	f.succeedAll(t)

	outcome, err := f.run(t, Options{InputPath: f.inputPath})
	require.NoError(t, err)
	require.NotNil(t, outcome)

	// Exactly four invocations: one extraction, three generations.
	require.Len(t, f.fake.calls, 4)

	extract := f.fake.calls[0]
	assert.Equal(t, f.cfg.ExtractScriptPath(), extract.Script)
	assert.Equal(t, []string{"--input-excel", f.inputPath, "--output-dir", f.layout.DataDir}, extract.Args)
	assert.Equal(t, filepath.Dir(f.cfg.ExtractScriptPath()), extract.Dir)

	// Generations run in fixed order with the variant flag as the only
	// difference.
	wantFlags := []string{"", "--fob", "--custom"}
	for i, call := range f.fake.calls[1:] {
		assert.Equal(t, f.cfg.GenerateScriptPath(), call.Script)
		assert.Equal(t, filepath.Dir(f.cfg.GenerateScriptPath()), call.Dir)
		assert.Equal(t, f.layout.DataFilePath(), call.Args[0])

		joined := strings.Join(call.Args, " ")
		assert.Contains(t, joined, "--templatedir "+f.cfg.TemplateDirPath())
		assert.Contains(t, joined, "--configdir "+f.cfg.ConfigDirPath())

		if wantFlags[i] == "" {
			assert.NotContains(t, joined, "--fob")
			assert.NotContains(t, joined, "--custom")
		} else {
			assert.Equal(t, wantFlags[i], call.Args[len(call.Args)-1])
		}
	}

	// The workspace exists and the outcome names all three documents.
	assert.DirExists(t, f.layout.DataDir)
	assert.DirExists(t, f.layout.DocumentDir)
	require.Len(t, outcome.Documents, 3)
	for _, doc := range outcome.Documents {
		assert.True(t, doc.Generated, "variant %s", doc.Mode)
	}
	assert.Empty(t, outcome.Failed())
	assert.Equal(t, "CT&INV&PL JF25001 NORMAL.xlsx", outcome.Documents[0].FileName)

	// Completion banner and summary report.
	logged := f.loggedLines()
	assert.Contains(t, logged, "--- Automation Completed Successfully ---")
	assert.Contains(t, logged, "1. Normal: CT&INV&PL JF25001 NORMAL.xlsx")
	assert.Contains(t, logged, "2. FOB: CT&INV&PL JF25001 FOB.xlsx")
	assert.Contains(t, logged, "3. Custom: CT&INV&PL JF25001 CUSTOM.xlsx")
	assert.FileExists(t, filepath.Join(f.layout.RootDir, SummaryFileName))
}

func TestRunIsRepeatable(t *testing.T) {
	f := newFixture(t)
	f.succeedAll(t)

	_, err := f.run(t, Options{InputPath: f.inputPath})
	require.NoError(t, err)

	// A second run against the existing workspace must not fail.
	_, err = f.run(t, Options{InputPath: f.inputPath})
	require.NoError(t, err)
	assert.Len(t, f.fake.calls, 8)
}

func TestRunModeFlagsDoNotReduceVariants(t *testing.T) {
	f := newFixture(t)
	f.succeedAll(t)

	outcome, err := f.run(t, Options{InputPath: f.inputPath, FOB: true})
	require.NoError(t, err)

	assert.Len(t, f.fake.calls, 4, "flags must not reduce the variant set")
	assert.Len(t, outcome.Documents, 3)
}

// =============================================================================
// FATAL STAGE FAILURES
// =============================================================================

func TestRunMissingInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, Options{InputPath: filepath.Join(t.TempDir(), "HT25017.xlsx")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
	assert.Empty(t, f.fake.calls, "nothing may run without an input file")
}

func TestRunEmptyPrefixAbortsBeforeDirectories(t *testing.T) {
	f := newFixture(t)
	inputDir := filepath.Dir(f.inputPath)
	digitsOnly := filepath.Join(inputDir, "25001.xlsx")
	require.NoError(t, os.WriteFile(digitsOnly, []byte("workbook bytes"), 0644))

	_, err := f.run(t, Options{InputPath: digitsOnly})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPrefix))
	assert.Empty(t, f.fake.calls)

	_, statErr := os.Stat(filepath.Join(inputDir, "25001"))
	assert.True(t, os.IsNotExist(statErr), "no directory may be created for an unmappable input")
}

func TestRunMissingAssets(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.cfg.GenerateScriptPath()))

	_, err := f.run(t, Options{InputPath: f.inputPath})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssetsMissing))
	assert.Empty(t, f.fake.calls, "asset validation precedes every invocation")
}

func TestRunExtractionFailureAbortsBeforeGeneration(t *testing.T) {
	f := newFixture(t)
	f.fake.handler = func(req runner.Request) runner.Result {
		return runner.Result{ExitCode: 2, Stderr: "tab missing"}
	}

	_, err := f.run(t, Options{InputPath: f.inputPath})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
	assert.Contains(t, err.Error(), "exit code 2")
	assert.Len(t, f.fake.calls, 1, "the generator must never run after a failed extraction")
}

func TestRunMissingDataFileAbortsBeforeGeneration(t *testing.T) {
	f := newFixture(t)
	// Extraction reports success but produces nothing.

	_, err := f.run(t, Options{InputPath: f.inputPath})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataFileMissing))
	assert.Len(t, f.fake.calls, 1)
}

func TestRunMissingGeneratorConfig(t *testing.T) {
	f := newFixture(t)
	f.succeedAll(t)
	require.NoError(t, os.Remove(filepath.Join(f.cfg.ConfigDirPath(), "JF_config.json")))

	_, err := f.run(t, Options{InputPath: f.inputPath})
	require.Error(t, err)
	assert.True(t, errors.Is(err, preflight.ErrGeneratorConfigMissing))
	assert.Len(t, f.fake.calls, 1, "the config check happens once, before any generation")
}

// =============================================================================
// VARIANT FAULT ISOLATION
// =============================================================================

func TestRunFOBFailureDoesNotStopTheRun(t *testing.T) {
	f := newFixture(t)
	f.fake.handler = func(req runner.Request) runner.Result {
		if req.Script == f.cfg.ExtractScriptPath() {
			require.NoError(t, os.WriteFile(f.layout.DataFilePath(), []byte("{}"), 0644))
			return runner.Result{ExitCode: 0}
		}
		for _, arg := range req.Args {
			if arg == "--fob" {
				return runner.Result{ExitCode: 1, Stderr: "fob pricing table missing"}
			}
		}
		return runner.Result{ExitCode: 0}
	}

	outcome, err := f.run(t, Options{InputPath: f.inputPath})
	require.NoError(t, err, "a failed variant must not fail the run")
	require.Len(t, f.fake.calls, 4, "remaining variants still run")

	require.Len(t, outcome.Documents, 3)
	assert.True(t, outcome.Documents[0].Generated)
	assert.False(t, outcome.Documents[1].Generated)
	assert.Equal(t, "exit code 1", outcome.Documents[1].Detail)
	assert.True(t, outcome.Documents[2].Generated)
	require.Len(t, outcome.Failed(), 1)

	// The closing banner names all three documents even though FOB failed.
	// That mirrors the behaviour of the system this replaces; the outcome
	// and the summary report carry the per-variant truth.
	logged := f.loggedLines()
	assert.Contains(t, logged, "Failed to generate invoice for FOB mode.")
	assert.Contains(t, logged, "--- Automation Completed Successfully ---")
	assert.Contains(t, logged, "2. FOB: CT&INV&PL JF25001 FOB.xlsx")

	// The summary report records the truth.
	data, err := os.ReadFile(filepath.Join(f.layout.RootDir, SummaryFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FAILED")
}

// =============================================================================
// DRY RUN
// =============================================================================

func TestRunDryRunTouchesNothing(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.run(t, Options{InputPath: f.inputPath, DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, f.fake.calls, "a dry run must not start any script")

	_, statErr := os.Stat(f.layout.RootDir)
	assert.True(t, os.IsNotExist(statErr), "a dry run must not create directories")

	require.Len(t, outcome.Documents, 3)
	for _, doc := range outcome.Documents {
		assert.False(t, doc.Generated)
		assert.Equal(t, "dry run", doc.Detail)
	}

	// The planned command lines are reported.
	logged := f.loggedLines()
	assert.Contains(t, logged, "+ "+f.cfg.Python+" "+f.cfg.ExtractScriptPath())
	assert.Contains(t, logged, "--fob")
}

func TestRunDryRunStillChecksGeneratorConfig(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.cfg.ConfigDirPath(), "JF_config.json")))

	_, err := f.run(t, Options{InputPath: f.inputPath, DryRun: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, preflight.ErrGeneratorConfigMissing))
}

// =============================================================================
// OUTPUT LAYOUT
// =============================================================================

func TestRunLayoutMatchesContract(t *testing.T) {
	f := newFixture(t)
	f.succeedAll(t)

	outcome, err := f.run(t, Options{InputPath: f.inputPath})
	require.NoError(t, err)

	inputDir := filepath.Dir(f.inputPath)
	assert.Equal(t, filepath.Join(inputDir, "JF25001"), outcome.Layout.RootDir)
	assert.Equal(t, filepath.Join(inputDir, "JF25001", "json_output"), outcome.Layout.DataDir)
	assert.Equal(t, filepath.Join(inputDir, "JF25001", "invoice_output"), outcome.Layout.DocumentDir)
	assert.Equal(t,
		filepath.Join(inputDir, "JF25001", "invoice_output", "CT&INV&PL JF25001 CUSTOM.xlsx"),
		outcome.Documents[2].Path)
}
