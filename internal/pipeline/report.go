// =============================================================================
// Invoice Automation - Run Summary Report
// =============================================================================
//
// Renders a completed run into the plain-text summary report written next
// to the generated documents. Operators who never see the log stream still
// get a per-run record of what was produced and what failed.
//
// =============================================================================

package pipeline

import (
	"path/filepath"

	"github.com/ginjaninja78/invoice-automation/pkg/utils"
)

// SummaryFileName is the fixed name of the per-run summary report. The
// fixed name keeps re-runs idempotent: each run overwrites the previous
// report instead of accumulating timestamped copies.
const SummaryFileName = "automation_summary.txt"

// writeSummaryReport writes the outcome's summary into the run's root
// output directory.
func writeSummaryReport(outcome *RunOutcome) error {
	summary := utils.RunSummary{
		RunID:      outcome.RunID,
		InputFile:  outcome.Layout.InputPath,
		Identifier: outcome.Layout.Identifier,
		Prefix:     outcome.Layout.Prefix,
		OutputDir:  outcome.Layout.RootDir,
		StartTime:  outcome.Started,
		EndTime:    outcome.Finished,
	}

	for _, doc := range outcome.Documents {
		summary.Documents = append(summary.Documents, utils.DocumentStatus{
			Label:     doc.Mode.Label(),
			FileName:  doc.FileName,
			Generated: doc.Generated,
			Detail:    doc.Detail,
		})
	}

	return utils.WriteSummaryReport(summary, filepath.Join(outcome.Layout.RootDir, SummaryFileName))
}
