// =============================================================================
// Invoice Automation - File Manager Utility
// =============================================================================
//
// This module provides the small set of file utilities the automation
// needs:
//   - Directory management for the per-run workspace
//   - Existence checks used by the preflight validation
//   - Run summary report generation
//
// The automation never moves or deletes user files. The input spreadsheet
// stays where it was; every artifact lands in the per-run output directory
// next to it.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates every listed directory if it does not exist.
// Existing directories are left untouched, so repeated runs are safe.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// EXISTENCE CHECKS
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// =============================================================================
// RUN SUMMARY REPORT
// =============================================================================

// RunSummary contains summary information about one automation run.
type RunSummary struct {
	RunID      string
	InputFile  string
	Identifier string
	Prefix     string
	OutputDir  string
	StartTime  time.Time
	EndTime    time.Time
	Documents  []DocumentStatus
}

// DocumentStatus describes the outcome of one generated document variant.
type DocumentStatus struct {
	Label     string
	FileName  string
	Generated bool
	Detail    string
}

// WriteSummaryReport writes a run summary to a plain-text file.
// The file is created fresh on every call, so a fixed path yields one
// report per run directory rather than an accumulating series.
//
// PARAMETERS:
//   - summary: The run summary.
//   - path: The report file path.
//
// RETURNS:
//   - An error if writing fails.
func WriteSummaryReport(summary RunSummary, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("Invoice Automation - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:     %s\n"+
		"  Input:      %s\n"+
		"  Identifier: %s\n"+
		"  Prefix:     %s\n"+
		"  Output Dir: %s\n"+
		"  Start Time: %s\n"+
		"  End Time:   %s\n"+
		"  Duration:   %s\n\n",
		summary.RunID,
		summary.InputFile,
		summary.Identifier,
		summary.Prefix,
		summary.OutputDir,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String())
	writer.WriteString(header)

	writer.WriteString("Documents:\n")
	writer.WriteString("--------------------------------------------------------------------------------\n")
	for _, doc := range summary.Documents {
		status := "generated"
		if !doc.Generated {
			status = "FAILED"
		}
		writer.WriteString(fmt.Sprintf("  %-8s %-40s %s\n", doc.Label+":", doc.FileName, status))
		if doc.Detail != "" {
			writer.WriteString(fmt.Sprintf("           %s\n", doc.Detail))
		}
	}

	footer := "================================================================================\n" +
		"End of Summary\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}

	return nil
}
