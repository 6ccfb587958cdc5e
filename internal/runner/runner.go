// =============================================================================
// Invoice Automation - Script Runner
// =============================================================================
//
// This module runs the collaborator scripts. The automation treats both of
// them as opaque programs: it builds an argument vector, starts the
// configured interpreter, captures everything the script writes, and
// reports the outcome. It never inspects or modifies what the scripts do.
//
// EXECUTION CONTRACT:
//   - The script path must exist before anything is spawned.
//   - The working directory, when requested, must exist as well. Scripts
//     resolve their own relative assets, so each runs from its own
//     directory.
//   - Standard output and standard error are captured in full and logged,
//     success or not, so script diagnostics always reach the operator.
//   - A non-zero exit is a normal, reportable outcome. A script that could
//     not be started at all is a different failure class and carries an
//     error in the result.
//
// The Runner never panics and never propagates a fault to its caller; every
// failure is logged and encoded in the Result.
//
// =============================================================================

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ginjaninja78/invoice-automation/pkg/utils"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrScriptNotFound reports that the script path is not a regular file.
	ErrScriptNotFound = errors.New("script not found")

	// ErrWorkdirNotFound reports that the requested working directory does
	// not exist.
	ErrWorkdirNotFound = errors.New("working directory not found")
)

// =============================================================================
// REQUEST AND RESULT TYPES
// =============================================================================

// Request describes one collaborator invocation.
type Request struct {
	// Script is the path to the script to run.
	Script string

	// Args are the arguments passed after the script path.
	Args []string

	// Dir is the working directory for the script. Empty means the
	// caller's working directory.
	Dir string

	// Name is the display name used in logs. Defaults to the script's
	// base name.
	Name string
}

// DisplayName returns the name used for this request in log output.
func (req Request) DisplayName() string {
	if req.Name != "" {
		return req.Name
	}
	return filepath.Base(req.Script)
}

// Result captures the outcome of one invocation.
type Result struct {
	// ExitCode is the script's exit code. It is -1 when the script never
	// ran.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Err is non-nil only when the script could not be run at all:
	// missing script, missing working directory, or a launch failure such
	// as an absent interpreter. A script that ran and exited non-zero has
	// Err == nil and a non-zero ExitCode.
	Err error
}

// Success reports whether the script ran to completion with exit code 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// =============================================================================
// RUNNER INTERFACE
// =============================================================================

// Runner executes collaborator scripts to completion. The pipeline depends
// on this interface so tests can substitute a scripted fake.
type Runner interface {
	Execute(ctx context.Context, req Request) Result
}

// =============================================================================
// SCRIPT RUNNER
// =============================================================================

// ScriptRunner runs scripts through a configured interpreter.
type ScriptRunner struct {
	// Python is the interpreter used for every script.
	Python string

	// Log receives the command line, the captured output, and failures.
	Log log.FieldLogger
}

// New creates a ScriptRunner for the given interpreter.
func New(python string, logger log.FieldLogger) *ScriptRunner {
	return &ScriptRunner{Python: python, Log: logger}
}

// Execute runs one script to completion and returns its outcome.
func (r *ScriptRunner) Execute(ctx context.Context, req Request) Result {
	name := req.DisplayName()

	// Check the preconditions before spawning anything, so a broken
	// deployment fails with a precise message instead of an interpreter
	// traceback.
	if !utils.FileExists(req.Script) {
		r.Log.Errorf("Script not found at %s", req.Script)
		return Result{ExitCode: -1, Err: fmt.Errorf("%w: %s", ErrScriptNotFound, req.Script)}
	}
	if req.Dir != "" && !utils.DirExists(req.Dir) {
		r.Log.Errorf("Working directory not found at %s", req.Dir)
		return Result{ExitCode: -1, Err: fmt.Errorf("%w: %s", ErrWorkdirNotFound, req.Dir)}
	}

	args := append([]string{req.Script}, req.Args...)
	cmd := exec.CommandContext(ctx, r.Python, args...)
	cmd.Dir = req.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Log.Infof("Running command: %s", strings.Join(append([]string{r.Python}, args...), " "))

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The script ran and failed. Report the exit code and both
			// captured streams, with an explicit placeholder for a silent
			// stream, and keep Err nil; the caller decides whether this
			// is fatal.
			result.ExitCode = exitErr.ExitCode()
			r.Log.Errorf("Error running %s (exit code %d):", name, result.ExitCode)
			if out := strings.TrimRight(result.Stdout, "\n"); out != "" {
				r.Log.Error(out)
			} else {
				r.Log.Error("No stdout captured.")
			}
			if msg := strings.TrimRight(result.Stderr, "\n"); msg != "" {
				r.Log.Error(msg)
			} else {
				r.Log.Error("No stderr captured.")
			}
			return result
		}

		// The script never ran: absent interpreter, permissions, or a
		// canceled context before start.
		result.ExitCode = -1
		result.Err = fmt.Errorf("failed to start %s: %w", name, err)
		r.Log.WithError(err).Errorf("Failed to start %s", name)
		return result
	}

	if out := strings.TrimRight(result.Stdout, "\n"); out != "" {
		r.Log.Infof("Output from %s:\n%s", name, out)
	} else {
		r.Log.Infof("%s produced no standard output.", name)
	}
	if msg := strings.TrimRight(result.Stderr, "\n"); msg != "" {
		r.Log.Warnf("Messages from %s (stderr):\n%s", name, msg)
	}

	return result
}
