package smtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/vcgen/internal/ir"
)

func testProgram() *ir.Program {
	prog := ir.NewProgram()
	prog.Vars["x"] = ir.SortInt
	prog.Vars["a"] = ir.SortArray
	prog.Procs.Set("double", &ir.ProcSpec{
		Name:     "double",
		Params:   []string{"n"},
		Requires: &ir.ConstBool{Value: true},
		Ensures:  &ir.Bin{Op: ir.OpEq, Left: &ir.Var{Name: "ret"}, Right: &ir.Bin{Op: ir.OpMul, Left: &ir.Var{Name: "n"}, Right: &ir.ConstInt{Value: 2}}},
	})
	return prog
}

func TestTranslateBasics(t *testing.T) {
	prog := testProgram()

	t.Run("var and old under different policies", func(t *testing.T) {
		v, err := Translate(prog, &ir.Var{Name: "x"}, CallSite, NewFuncCache())
		require.NoError(t, err)
		assert.Equal(t, "x", v.SExpr())

		old, err := Translate(prog, &ir.Old{Name: "x"}, CallSite, NewFuncCache())
		require.NoError(t, err)
		assert.Equal(t, "x_pre_call", old.SExpr())

		old2, err := Translate(prog, &ir.Old{Name: "x"}, ProcEntry, NewFuncCache())
		require.NoError(t, err)
		assert.Equal(t, "x_old", old2.SExpr())
	})

	t.Run("select requires Var or Old base", func(t *testing.T) {
		_, err := Translate(prog, &ir.Select{Base: &ir.ConstInt{Value: 1}, Index: &ir.ConstInt{Value: 0}}, CallSite, NewFuncCache())
		assert.Error(t, err)

		sel, err := Translate(prog, &ir.Select{Base: &ir.Var{Name: "a"}, Index: &ir.ConstInt{Value: 0}}, CallSite, NewFuncCache())
		require.NoError(t, err)
		assert.Equal(t, "(select a 0)", sel.SExpr())
	})

	t.Run("CallExpr allocates an uninterpreted function of matching arity", func(t *testing.T) {
		funcs := NewFuncCache()
		e := &ir.CallExpr{Name: "double", Args: []ir.Expr{&ir.ConstInt{Value: 5}}}
		got, err := Translate(prog, e, CallSite, funcs)
		require.NoError(t, err)
		assert.Equal(t, "(double 5)", got.SExpr())

		fns := funcs.All()
		require.Len(t, fns, 1)
		assert.Equal(t, "double", fns[0].Name)
		assert.Equal(t, 1, fns[0].Arity)
		assert.Equal(t, "(declare-fun double (Int) Int)", fns[0].Decl())
	})

	t.Run("CallExpr to an undefined procedure is an error", func(t *testing.T) {
		_, err := Translate(prog, &ir.CallExpr{Name: "nope"}, CallSite, NewFuncCache())
		assert.Error(t, err)
	})

	t.Run("CallExpr arity mismatch still translates (arity is enforced by ir.Validate, not Translate)", func(t *testing.T) {
		got, err := Translate(prog, &ir.CallExpr{Name: "double", Args: []ir.Expr{&ir.ConstInt{Value: 1}, &ir.ConstInt{Value: 2}}}, CallSite, NewFuncCache())
		require.NoError(t, err)
		assert.Equal(t, "(double 1 2)", got.SExpr())
	})
}
