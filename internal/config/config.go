// =============================================================================
// Invoice Automation - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. The configuration describes where the collaborator scripts
// live and how the output workspace is named; it never contains business
// data.
//
// CONFIGURATION FILE:
//   automation.yaml (optional): Global application settings. When the file
//   is absent and was not explicitly requested, built-in defaults apply, so
//   the tool works out of the box inside a standard project checkout.
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Self-contained: every field has a working default
//   - Validated: all configurations are validated on load
//   - Read-only: loading never creates files or directories
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the automation.yaml file.
type MainConfig struct {
	// =========================================================================
	// PROJECT SETTINGS
	// =========================================================================

	// ProjectRoot is the directory containing the collaborator scripts and
	// their assets. Relative script and directory settings below are
	// resolved against it. It is made absolute at load time.
	// Default: "." (the current working directory)
	ProjectRoot string `yaml:"project_root"`

	// Python is the interpreter used to run both collaborator scripts.
	// Default: "python3"
	Python string `yaml:"python"`

	// =========================================================================
	// COLLABORATOR SETTINGS
	// =========================================================================

	// ExtractScript is the script that converts the input spreadsheet into
	// a structured data file.
	// Default: "create_json/main.py"
	ExtractScript string `yaml:"extract_script"`

	// GenerateScript is the script that renders a structured data file into
	// one finished document variant per invocation.
	// Default: "invoice_gen/generate_invoice.py"
	GenerateScript string `yaml:"generate_script"`

	// TemplateDir is the directory of document templates passed to the
	// generation script via --templatedir.
	// Default: "invoice_gen/TEMPLATE"
	TemplateDir string `yaml:"template_dir"`

	// ConfigDir is the directory of per-prefix generator configuration
	// files (for example JF_config.json) passed via --configdir.
	// Default: "invoice_gen/config"
	ConfigDir string `yaml:"config_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// DataSubdir is the name of the structured data directory created under
	// the per-run output directory.
	// Default: "json_output"
	DataSubdir string `yaml:"data_subdir"`

	// DocumentSubdir is the name of the document directory created under
	// the per-run output directory.
	// Default: "invoice_output"
	DocumentSubdir string `yaml:"document_subdir"`

	// DocumentTag is the fixed leading token of every generated document
	// name, e.g. "CT&INV&PL JF25001 NORMAL.xlsx".
	//
	// CUSTOMIZATION: Change this if your documents use a different house
	// naming convention. Downstream consumers match on it.
	// Default: "CT&INV&PL"
	DocumentTag string `yaml:"document_tag"`

	// DocumentExt is the extension of generated documents, including the
	// leading dot.
	// Default: ".xlsx"
	DocumentExt string `yaml:"document_ext"`

	// SummaryReport controls whether a plain-text run summary is written
	// into the per-run output directory. The file has a fixed name and is
	// overwritten on every run.
	// Default: true
	SummaryReport *bool `yaml:"summary_report"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. When empty, logs go
	// to standard output only; when set, they go to both.
	// Default: "" (stdout only)
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// DefaultConfigFile is the configuration file consulted when --config is
// not given. Its absence is not an error.
const DefaultConfigFile = "automation.yaml"

// Default returns the built-in configuration, equivalent to loading an
// empty file.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - explicit: Whether the user named the file on the command line. An
//     explicitly named file must exist; the default file may be absent, in
//     which case the built-in defaults are returned.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string, explicit bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *MainConfig) {
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.ExtractScript == "" {
		cfg.ExtractScript = filepath.Join("create_json", "main.py")
	}
	if cfg.GenerateScript == "" {
		cfg.GenerateScript = filepath.Join("invoice_gen", "generate_invoice.py")
	}
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = filepath.Join("invoice_gen", "TEMPLATE")
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Join("invoice_gen", "config")
	}
	if cfg.DataSubdir == "" {
		cfg.DataSubdir = "json_output"
	}
	if cfg.DocumentSubdir == "" {
		cfg.DocumentSubdir = "invoice_output"
	}
	if cfg.DocumentTag == "" {
		cfg.DocumentTag = "CT&INV&PL"
	}
	if cfg.DocumentExt == "" {
		cfg.DocumentExt = ".xlsx"
	}
	if cfg.SummaryReport == nil {
		enabled := true
		cfg.SummaryReport = &enabled
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Resolve the project root once so every derived path is absolute
	// regardless of the working directory the scripts run in.
	if abs, err := filepath.Abs(cfg.ProjectRoot); err == nil {
		cfg.ProjectRoot = abs
	}
}

// validate checks the configuration for values that can never work.
// It performs no filesystem lookups; missing assets are reported by the
// preflight checks with better context.
func validate(cfg *MainConfig) error {
	if cfg.Python == "" {
		return fmt.Errorf("python interpreter must not be empty")
	}
	if cfg.ExtractScript == "" || cfg.GenerateScript == "" {
		return fmt.Errorf("collaborator script paths must not be empty")
	}
	if cfg.DataSubdir == "" || cfg.DocumentSubdir == "" {
		return fmt.Errorf("output subdirectory names must not be empty")
	}
	if cfg.DocumentTag == "" {
		return fmt.Errorf("document tag must not be empty")
	}
	if !strings.HasPrefix(cfg.DocumentExt, ".") {
		return fmt.Errorf("document extension %q must begin with a dot", cfg.DocumentExt)
	}
	return nil
}

// =============================================================================
// PATH ACCESSORS
// =============================================================================
// Script and directory settings may be given relative to the project root.
// These accessors return the resolved absolute paths the rest of the
// application works with.

// ExtractScriptPath returns the absolute path of the extraction script.
func (cfg *MainConfig) ExtractScriptPath() string {
	return cfg.resolve(cfg.ExtractScript)
}

// GenerateScriptPath returns the absolute path of the generation script.
func (cfg *MainConfig) GenerateScriptPath() string {
	return cfg.resolve(cfg.GenerateScript)
}

// TemplateDirPath returns the absolute path of the template directory.
func (cfg *MainConfig) TemplateDirPath() string {
	return cfg.resolve(cfg.TemplateDir)
}

// ConfigDirPath returns the absolute path of the generator config directory.
func (cfg *MainConfig) ConfigDirPath() string {
	return cfg.resolve(cfg.ConfigDir)
}

// SummaryReportEnabled reports whether the run summary file should be
// written.
func (cfg *MainConfig) SummaryReportEnabled() bool {
	return cfg.SummaryReport == nil || *cfg.SummaryReport
}

// resolve joins a possibly relative path onto the project root.
func (cfg *MainConfig) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.ProjectRoot, path)
}
