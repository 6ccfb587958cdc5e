// =============================================================================
// Invoice Automation - Preflight Checks
// =============================================================================
//
// This module validates the static preconditions of a run before any
// collaborator script is started. It checks the assets the scripts depend
// on, not the business data inside them:
//   - The extraction and generation scripts themselves
//   - The document template directory
//   - The generator configuration directory and per-prefix config file
//   - The configured interpreter (validate command only)
//
// ERROR HANDLING:
//   Problems are collected, not thrown immediately. Every missing asset is
//   reported in one pass so an operator can fix a broken deployment in one
//   round trip instead of one failure at a time.
//
// =============================================================================

package preflight

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/ginjaninja78/invoice-automation/internal/config"
	"github.com/ginjaninja78/invoice-automation/internal/naming"
	"github.com/ginjaninja78/invoice-automation/pkg/utils"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrGeneratorConfigMissing reports that the per-prefix generator
// configuration file does not exist.
var ErrGeneratorConfigMissing = errors.New("generator config not found")

// =============================================================================
// PROBLEM TYPE
// =============================================================================

// Problem describes one missing precondition.
type Problem struct {
	// Asset is the human-readable name of the missing asset.
	Asset string

	// Path is the location that was checked.
	Path string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s not found at %s", p.Asset, p.Path)
}

// =============================================================================
// ASSET CHECKS
// =============================================================================

// CheckAssets verifies the static assets every run depends on and returns
// every problem found. An empty slice means the deployment is usable.
//
// The checks run in a fixed order so reports stay stable:
//   1. Extraction script (regular file)
//   2. Generation script (regular file)
//   3. Template directory
//   4. Generator config directory
func CheckAssets(cfg *config.MainConfig) []Problem {
	var problems []Problem

	if path := cfg.ExtractScriptPath(); !utils.FileExists(path) {
		problems = append(problems, Problem{Asset: "Extraction script", Path: path})
	}
	if path := cfg.GenerateScriptPath(); !utils.FileExists(path) {
		problems = append(problems, Problem{Asset: "Generation script", Path: path})
	}
	if path := cfg.TemplateDirPath(); !utils.DirExists(path) {
		problems = append(problems, Problem{Asset: "Template directory", Path: path})
	}
	if path := cfg.ConfigDirPath(); !utils.DirExists(path) {
		problems = append(problems, Problem{Asset: "Generator config directory", Path: path})
	}

	return problems
}

// CheckInterpreter verifies that the configured interpreter can be found.
// The run pipeline does not call this; a missing interpreter surfaces there
// as a launch failure with the same outcome. The validate command uses it
// to report the problem before anything else is attempted.
func CheckInterpreter(cfg *config.MainConfig) error {
	if _, err := exec.LookPath(cfg.Python); err != nil {
		return fmt.Errorf("interpreter %q not found in PATH: %w", cfg.Python, err)
	}
	return nil
}

// GeneratorConfigPath resolves the per-prefix generator configuration file
// and verifies it exists.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - prefix: The alphabetic prefix derived from the input identifier.
//
// RETURNS:
//   - The absolute path of the config file.
//   - ErrGeneratorConfigMissing (wrapped) if the file does not exist.
func GeneratorConfigPath(cfg *config.MainConfig, prefix string) (string, error) {
	path := filepath.Join(cfg.ConfigDirPath(), naming.GeneratorConfigName(prefix))
	if !utils.FileExists(path) {
		return path, fmt.Errorf("%w: %s", ErrGeneratorConfigMissing, path)
	}
	return path, nil
}
