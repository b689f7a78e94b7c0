package vcgen

import (
	"time"

	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/smtf"
	"github.com/lhaig/vcgen/internal/solver"
	"github.com/lhaig/vcgen/internal/vcgctx"
	"github.com/lhaig/vcgen/internal/wp"
)

// ProgramName labels the top-level program's Outcome, distinguishing it from
// any procedure's Outcome in reports.
const ProgramName = "<main>"

// Result is the outcome of a full verification run: one Outcome per
// procedure, in Program.Procs order, plus the top-level program's Outcome.
// Procedures are checked in declaration order and verification halts at the
// first non-Verified procedure — spec.md §5's ordering guarantee — so Procs
// may be shorter than the program's full procedure set when a failure cuts
// the run short.
type Result struct {
	Procs   []*Outcome
	Program *Outcome
}

// AllVerified reports whether every procedure checked and the top-level
// program all came back Verified.
func (r *Result) AllVerified() bool {
	if r.Program == nil || r.Program.Status != Verified {
		return false
	}
	for _, o := range r.Procs {
		if o.Status != Verified {
			return false
		}
	}
	return true
}

// VerifyProgram runs compileAll once, then VerifyProcedure over every
// procedure in declaration order (halting at the first non-Verified
// procedure, per spec.md §5), and finally checks the top-level Main
// statement against postcondition true with every procedure's axiom in
// force — Main is never itself a recursive-spec target, so no axiom is ever
// excluded on its account. checker is used for every VC in this run; callers
// that want isolation between runs should start a fresh solver.Session (or
// solver.Fake) per call. cache may be nil.
func VerifyProgram(ctx *vcgctx.VcgContext, prog *ir.Program, checker solver.Checker, cache OutcomeCache, timeout time.Duration) (*Result, error) {
	compiledSpecs, err := compileAll(ctx, prog)
	if err != nil {
		return nil, err
	}
	axioms := buildAxioms(ctx, prog, compiledSpecs)

	result := &Result{}
	for pair := prog.Procs.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key
		outcome, err := VerifyProcedure(ctx, prog, checker, name, compiledSpecs, axioms, cache, timeout)
		if err != nil {
			return nil, err
		}
		result.Procs = append(result.Procs, outcome)
		if outcome.Status != Verified {
			ctx.WithFields(map[string]interface{}{"proc": name, "status": outcome.Status.String()}).
				Warn("procedure did not verify; halting before checking the top-level program")
			return result, nil
		}
	}

	mainWP, err := wp.Transform(ctx, prog, prog.Main, smtf.True(), "", smtf.CallSite)
	if err != nil {
		return nil, err
	}

	mainAxioms := make([]smtf.Term, 0, len(axioms))
	for _, t := range axioms {
		mainAxioms = append(mainAxioms, t)
	}

	programOutcome, err := submit(ctx, checker, ProgramName, mainWP, mainAxioms, cache, timeout)
	if err != nil {
		return nil, err
	}
	result.Program = programOutcome
	return result, nil
}
