package vcgen

import (
	"context"
	"fmt"
	"time"

	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/smtf"
	"github.com/lhaig/vcgen/internal/solver"
	"github.com/lhaig/vcgen/internal/vcgctx"
	"github.com/lhaig/vcgen/internal/wp"
)

// DefaultTimeout bounds a single check-sat round, matching the 5 second
// budget lhaig-intent/internal/verify/verifier.go uses for its one-shot z3
// invocations.
const DefaultTimeout = 5 * time.Second

// VerifyProcedure builds and submits the VC for one procedure — spec.md
// §4.3 steps 1-8. compiledSpecs and axioms come from a prior compileAll/
// buildAxioms pass over the whole program, so every procedure's
// uninterpreted function is allocated before any single VC is checked.
// cache may be nil.
func VerifyProcedure(ctx *vcgctx.VcgContext, prog *ir.Program, checker solver.Checker, name string, compiledSpecs map[string]*compiled, axioms map[string]smtf.Term, cache OutcomeCache, timeout time.Duration) (*Outcome, error) {
	c, ok := compiledSpecs[name]
	if !ok {
		return nil, fmt.Errorf("vcgen: no compiled spec for procedure %q", name)
	}

	snapshotAssumptions := oldSnapshotAssumptions(ctx, prog, c.oldVars)
	pre := smtf.And(append([]smtf.Term{c.requires}, snapshotAssumptions...)...)
	post := c.ensures

	wpBody, err := wp.Transform(ctx, prog, c.spec.Body, post, wp.RetVar, smtf.ProcEntry)
	if err != nil {
		return nil, err
	}

	vc := smtf.Implies(pre, wpBody)

	ctx.WithFields(map[string]interface{}{"proc": name, "stage": "procedure-vc"}).Debug(vc.SExpr())

	return submit(ctx, checker, name, vc, axiomsExcluding(axioms, name), cache, timeout)
}

// submit negates vc, asserts it (plus every axiom in force) inside its own
// push/pop scope, and classifies the result — spec.md §4.3 step 8 / §4.5. If
// cache is non-nil, a VC whose exact fingerprint (vc + axioms) was checked
// before is returned without touching the solver at all.
func submit(ctx *vcgctx.VcgContext, checker solver.Checker, name string, vc smtf.Term, axioms []smtf.Term, cache OutcomeCache, timeout time.Duration) (*Outcome, error) {
	fingerprint := Fingerprint(vc, axioms)
	if cache != nil {
		if cached, ok, err := cache.Lookup(fingerprint); err != nil {
			ctx.WithFields(map[string]interface{}{"proc": name}).Warn("vc cache lookup failed; checking normally: " + err.Error())
		} else if ok {
			ctx.WithFields(map[string]interface{}{"proc": name, "status": cached.Status.String()}).Debug("vc cache hit")
			result := *cached
			result.Name = name
			return &result, nil
		}
	}

	outcome, err := submitToSolver(ctx, checker, name, vc, axioms, timeout)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Store(fingerprint, outcome); err != nil {
			ctx.WithFields(map[string]interface{}{"proc": name}).Warn("vc cache store failed: " + err.Error())
		}
	}
	return outcome, nil
}

// submitToSolver does the actual push/assert/check-sat/pop round.
func submitToSolver(ctx *vcgctx.VcgContext, checker solver.Checker, name string, vc smtf.Term, axioms []smtf.Term, timeout time.Duration) (*Outcome, error) {
	if err := checker.Push(); err != nil {
		return nil, err
	}
	defer checker.Pop()

	for _, f := range ctx.Funcs.All() {
		if err := checker.DeclareFun(f.Decl()); err != nil {
			return nil, err
		}
	}

	declared := make(map[string]bool)
	declare := func(t smtf.Term) error {
		for _, sym := range smtf.FreeSyms(t) {
			if declared[sym.Name] {
				continue
			}
			declared[sym.Name] = true
			if err := checker.DeclareConst(sym.Name, sym.Sort.String()); err != nil {
				return err
			}
		}
		return nil
	}

	if err := declare(vc); err != nil {
		return nil, err
	}
	for _, ax := range axioms {
		if err := declare(ax); err != nil {
			return nil, err
		}
	}

	for _, ax := range axioms {
		if err := checker.Assert(ax.SExpr()); err != nil {
			return nil, err
		}
	}
	if err := checker.Assert(smtf.Not(vc).SExpr()); err != nil {
		return nil, err
	}

	checkCtx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(checkCtx, timeout)
		defer cancel()
	}

	result, err := checker.CheckSat(checkCtx)
	if err != nil {
		return &Outcome{Name: name, Status: Unknown, Reason: err.Error()}, nil
	}

	switch result {
	case solver.Unsat:
		return &Outcome{Name: name, Status: Verified}, nil
	case solver.Sat:
		model, _ := checker.Model()
		return &Outcome{Name: name, Status: Failed, Model: model}, nil
	default:
		reason, _ := checker.ReasonUnknown()
		return &Outcome{Name: name, Status: Unknown, Reason: reason}, nil
	}
}
