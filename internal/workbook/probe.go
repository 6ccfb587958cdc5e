// =============================================================================
// Invoice Automation - Workbook Probe
// =============================================================================
//
// This module performs a structural readability check on an input workbook.
// It opens the file, lists its sheets, and counts the rows of the first
// sheet. It deliberately reads no cell values: extracting business data is
// the extraction script's job, and the automation stays out of it.
//
// The probe backs the validate command. A workbook that fails here would
// also fail inside the extraction script, but with a far less direct
// message.
//
// =============================================================================

package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Info describes the structure of a probed workbook.
type Info struct {
	// Path is the probed file.
	Path string

	// Sheets lists the workbook's sheet names in order.
	Sheets []string

	// FirstSheetRows is the number of rows in the first sheet.
	FirstSheetRows int
}

// Probe opens a workbook and reports its structure.
//
// PARAMETERS:
//   - path: The workbook file to probe.
//
// RETURNS:
//   - Structural information about the workbook.
//   - An error if the file cannot be opened or read as a workbook.
func Probe(path string) (*Info, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	info := &Info{
		Path:   path,
		Sheets: f.GetSheetList(),
	}
	if len(info.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(info.Sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", info.Sheets[0], err)
	}
	info.FirstSheetRows = len(rows)

	return info, nil
}
