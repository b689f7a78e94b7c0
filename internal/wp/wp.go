// Package wp computes the weakest precondition of an IR statement with
// respect to a postcondition formula — spec.md §4.2. It implements partial
// correctness only: termination is never verified.
package wp

import (
	"fmt"

	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/smtf"
	"github.com/lhaig/vcgen/internal/vcgctx"
)

// RetVar is the reserved name bound by Return statements.
const RetVar = "ret"

// Transform computes wp(stmt, post, retVar, policy). retVar is "" outside a
// procedure body; a bare Return there is a validation error reported by
// internal/ir, and Transform also returns an error for it. prog supplies
// Vars/Procs for Sort lookup and call resolution; ctx supplies the shared function cache and
// fresh-id counter used by the Call rule.
func Transform(ctx *vcgctx.VcgContext, prog *ir.Program, stmt ir.Stmt, post smtf.Term, retVar string, policy smtf.OldPolicy) (smtf.Term, error) {
	switch s := stmt.(type) {
	case nil, *ir.Skip:
		return post, nil

	case *ir.Seq:
		result := post
		for i := len(s.Stmts) - 1; i >= 0; i-- {
			var err error
			result, err = Transform(ctx, prog, s.Stmts[i], result, retVar, policy)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case *ir.Invariant:
		// Transparent to WP: invariants are consumed from the enclosing
		// While's Invariants list, never evaluated as a standalone
		// statement.
		return post, nil

	case *ir.Assume:
		e, err := smtf.Translate(prog, s.Expr, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		return smtf.Implies(e, post), nil

	case *ir.Assert:
		e, err := smtf.Translate(prog, s.Expr, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		return smtf.And(e, post), nil

	case *ir.If:
		test, err := smtf.Translate(prog, s.Test, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		wpThen, err := Transform(ctx, prog, s.Then, post, retVar, policy)
		if err != nil {
			return nil, err
		}
		wpElse, err := Transform(ctx, prog, s.Else, post, retVar, policy)
		if err != nil {
			return nil, err
		}
		return smtf.And(
			smtf.Implies(test, wpThen),
			smtf.Implies(smtf.Not(test), wpElse),
		), nil

	case *ir.Assign:
		e, err := smtf.Translate(prog, s.Expr, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		target := varSymFor(prog, s.Var)
		return smtf.Subst(post, target, e), nil

	case *ir.ArrayStore:
		idx, err := smtf.Translate(prog, s.Index, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		val, err := smtf.Translate(prog, s.Expr, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		target := varSymFor(prog, s.Arr)
		return smtf.Subst(post, target, smtf.StoreT(target, idx, val)), nil

	case *ir.Return:
		if retVar == "" {
			return nil, fmt.Errorf("wp: return statement outside a procedure body")
		}
		e, err := smtf.Translate(prog, s.Expr, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		target := smtf.Sym{Name: retVar, Sort: smtf.SortInt}
		return smtf.Subst(post, target, e), nil

	case *ir.While:
		return transformWhile(ctx, prog, s, post, retVar, policy)

	case *ir.Call:
		return transformCall(ctx, prog, s, post, policy)

	default:
		return nil, fmt.Errorf("wp: unsupported statement variant %T", stmt)
	}
}

func varSymFor(prog *ir.Program, name string) smtf.Sym {
	sort := smtf.SortInt
	if prog.Vars[name] == ir.SortArray {
		sort = smtf.SortArray
	}
	return smtf.Sym{Name: name, Sort: sort}
}

// transformWhile implements spec.md §4.2's three-conjunct loop rule. An
// empty invariant list is a usage error: rather than silently accepting the
// loop, it makes the VC unprovable by returning False, guaranteeing the
// tool never verifies a loop without an invariant.
func transformWhile(ctx *vcgctx.VcgContext, prog *ir.Program, w *ir.While, post smtf.Term, retVar string, policy smtf.OldPolicy) (smtf.Term, error) {
	if len(w.Invariants) == 0 {
		ctx.WithFields(nil).Warn("while loop has no invariants; its VC is unprovable by construction")
		return smtf.False(), nil
	}

	invTerms := make([]smtf.Term, len(w.Invariants))
	for i, inv := range w.Invariants {
		t, err := smtf.Translate(prog, inv, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		invTerms[i] = t
	}
	invariant := smtf.And(invTerms...)

	cond, err := smtf.Translate(prog, w.Test, policy, ctx.Funcs)
	if err != nil {
		return nil, err
	}

	wpBody, err := Transform(ctx, prog, w.Body, invariant, retVar, policy)
	if err != nil {
		return nil, err
	}

	entry := invariant
	preservation := smtf.Implies(smtf.And(invariant, cond), wpBody)
	exit := smtf.Implies(smtf.And(invariant, smtf.Not(cond)), post)

	return smtf.And(entry, preservation, exit), nil
}
