// Package vcgen orchestrates the per-procedure and top-level verification
// conditions: framing, old-snapshot assumptions, body WP, the recursive-spec
// axiom, and submission to the solver gateway — spec.md §4.3/§4.4.
package vcgen

import (
	"strings"

	"github.com/lhaig/vcgen/internal/smtf"
)

// Status classifies one VC's outcome.
type Status int

const (
	Verified Status = iota
	Failed
	Unknown
)

func (s Status) String() string {
	switch s {
	case Verified:
		return "VERIFIED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of checking one VC — spec.md §6's three textual
// outcomes, as a value rather than text.
type Outcome struct {
	Name   string // procedure name, or ProgramName for the top-level program
	Status Status
	Model  string // set when Status == Failed
	Reason string // set when Status == Unknown
}

// Fingerprint returns the exact text submitted to the solver for this VC —
// the negated goal plus every axiom asserted alongside it, in the order
// submit() asserts them. internal/vccache hashes this text to key its
// cache: two calls to Fingerprint that return equal strings are guaranteed
// to have produced equal Outcomes, since nothing else feeds into CheckSat.
func Fingerprint(vc smtf.Term, axioms []smtf.Term) string {
	var sb strings.Builder
	for _, ax := range axioms {
		sb.WriteString(ax.SExpr())
		sb.WriteByte('\n')
	}
	sb.WriteString(smtf.Not(vc).SExpr())
	return sb.String()
}

// OutcomeCache is the narrow interface submit() uses to skip re-checking a
// VC whose fingerprint was seen before. internal/vccache.Cache implements
// it; nil is always a valid value meaning "no caching".
type OutcomeCache interface {
	Lookup(fingerprint string) (*Outcome, bool, error)
	Store(fingerprint string, o *Outcome) error
}
