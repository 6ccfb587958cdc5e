// =============================================================================
// Invoice Automation - Naming Module
// =============================================================================
//
// This module derives every name and path the automation uses from the input
// spreadsheet path. All functions are pure: they perform no I/O, so the
// pipeline can derive the full layout before touching the filesystem.
//
// NAMING SCHEME (input "JF25001.xlsx"):
//   Identifier: JF25001                 (file name without extension)
//   Prefix:     JF                      (alphabetic characters, in order)
//   Layout:     <parent>/JF25001/
//                 json_output/JF25001.json
//                 invoice_output/CT&INV&PL JF25001 NORMAL.xlsx
//   Config:     <configdir>/JF_config.json
//
// =============================================================================

package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ginjaninja78/invoice-automation/internal/types"
)

// =============================================================================
// IDENTITY DERIVATION
// =============================================================================

// Identifier returns the base name of the input path with its final
// extension removed. "orders/JF25001.xlsx" yields "JF25001"; a name with
// several dots keeps everything before the last one.
func Identifier(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Prefix returns every alphabetic rune of the identifier, in order.
// "JF25001" yields "JF", "JF25001A" yields "JFA". An identifier without
// letters yields the empty string, which callers must treat as fatal.
func Prefix(identifier string) string {
	var b strings.Builder
	for _, r := range identifier {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// FILE NAMES
// =============================================================================

// DataFileName returns the name of the structured data file the extraction
// script is expected to produce for an identifier.
func DataFileName(identifier string) string {
	return identifier + ".json"
}

// GeneratorConfigName returns the name of the per-prefix configuration file
// consumed by the generation script.
func GeneratorConfigName(prefix string) string {
	return prefix + "_config.json"
}

// DocumentFileName returns the name of one generated document variant.
// Example: DocumentFileName("CT&INV&PL", "JF25001", types.ModeFOB, ".xlsx")
// yields "CT&INV&PL JF25001 FOB.xlsx".
func DocumentFileName(tag, identifier string, mode types.Mode, ext string) string {
	return fmt.Sprintf("%s %s %s%s", tag, identifier, mode.Suffix(), ext)
}

// =============================================================================
// WORKSPACE LAYOUT
// =============================================================================

// Layout describes the directory structure created next to the input file.
// All paths are absolute when the input path is absolute.
type Layout struct {
	// InputPath is the spreadsheet the layout was derived from.
	InputPath string

	// Identifier is the input file name without its extension.
	Identifier string

	// Prefix is the alphabetic portion of the identifier.
	Prefix string

	// RootDir is the per-run output directory, named after the identifier
	// and placed beside the input file.
	RootDir string

	// DataDir holds the structured data produced by the extraction script.
	DataDir string

	// DocumentDir holds the generated document variants.
	DocumentDir string
}

// NewLayout derives the workspace layout for an input path. The data and
// document subdirectory names come from configuration so deployments can
// rename them without code changes.
func NewLayout(inputPath, dataSubdir, documentSubdir string) Layout {
	identifier := Identifier(inputPath)
	rootDir := filepath.Join(filepath.Dir(inputPath), identifier)

	return Layout{
		InputPath:   inputPath,
		Identifier:  identifier,
		Prefix:      Prefix(identifier),
		RootDir:     rootDir,
		DataDir:     filepath.Join(rootDir, dataSubdir),
		DocumentDir: filepath.Join(rootDir, documentSubdir),
	}
}

// DataFilePath returns the full path of the data file the extraction script
// must produce for this layout.
func (l Layout) DataFilePath() string {
	return filepath.Join(l.DataDir, DataFileName(l.Identifier))
}

// DocumentPath returns the full path of one generated document variant.
func (l Layout) DocumentPath(tag string, mode types.Mode, ext string) string {
	return filepath.Join(l.DocumentDir, DocumentFileName(tag, l.Identifier, mode, ext))
}
