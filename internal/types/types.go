// =============================================================================
// Invoice Automation - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - naming
//   - pipeline
//   - cmd
//
// =============================================================================

package types

// =============================================================================
// DOCUMENT VARIANT TYPES
// =============================================================================

// Mode identifies one variant of the generated document set.
// Every run produces all three variants, in the order returned by AllModes.
type Mode string

const (
	// ModeNormal is the standard document variant.
	ModeNormal Mode = "normal"

	// ModeFOB is the free-on-board pricing variant.
	ModeFOB Mode = "fob"

	// ModeCustom is the customized variant.
	ModeCustom Mode = "custom"
)

// AllModes returns the document variants in their fixed generation order.
// The order is part of the output contract and must not change.
func AllModes() []Mode {
	return []Mode{ModeNormal, ModeFOB, ModeCustom}
}

// Flag returns the extra argument passed to the generation script for this
// variant. The normal variant needs no flag.
func (m Mode) Flag() string {
	switch m {
	case ModeFOB:
		return "--fob"
	case ModeCustom:
		return "--custom"
	default:
		return ""
	}
}

// Label returns the display name used in summaries.
func (m Mode) Label() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeFOB:
		return "FOB"
	case ModeCustom:
		return "Custom"
	default:
		return string(m)
	}
}

// Suffix returns the upper-case token embedded in the document file name.
// Example: "CT&INV&PL JF25001 NORMAL.xlsx" uses the suffix "NORMAL".
func (m Mode) Suffix() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeFOB:
		return "FOB"
	case ModeCustom:
		return "CUSTOM"
	default:
		return string(m)
	}
}
