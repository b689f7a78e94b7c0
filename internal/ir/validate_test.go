package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReservedName(t *testing.T) {
	cases := map[string]bool{
		"ret":          true,
		"x_old":        true,
		"x_pre_call":   true,
		"x_3":          true,
		"i_frame_7":    true,
		"x":            false,
		"i_frame":      false,
		"i_frame_seven": false,
	}
	for name, want := range cases {
		assert.Equal(t, want, IsReservedName(name), "name %q", name)
	}
}

func simpleProgram() *Program {
	prog := NewProgram()
	prog.Vars["x"] = SortInt
	prog.Main = &Seq{Stmts: []Stmt{
		&Assign{Var: "x", Expr: &ConstInt{Value: 1}},
	}}
	return prog
}

func TestValidateReturnPlacement(t *testing.T) {
	t.Run("bare return outside a procedure is rejected", func(t *testing.T) {
		prog := simpleProgram()
		prog.Main = &Seq{Stmts: []Stmt{&Return{Expr: &ConstInt{Value: 0}}}}
		errs := Validate(prog)
		assert.NotEmpty(t, errs)
	})

	t.Run("return inside a procedure body is fine", func(t *testing.T) {
		prog := NewProgram()
		prog.Procs.Set("f", &ProcSpec{
			Name:     "f",
			Requires: &ConstBool{Value: true},
			Ensures:  &ConstBool{Value: true},
			Body:     &Seq{Stmts: []Stmt{&Return{Expr: &ConstInt{Value: 0}}}},
		})
		prog.Main = &Seq{}
		errs := Validate(prog)
		assert.Empty(t, errs)
	})
}

func TestValidateCallArity(t *testing.T) {
	prog := NewProgram()
	prog.Procs.Set("f", &ProcSpec{
		Name:     "f",
		Params:   []string{"a", "b"},
		Requires: &ConstBool{Value: true},
		Ensures:  &ConstBool{Value: true},
		Body:     &Seq{},
	})
	prog.Main = &Seq{Stmts: []Stmt{
		&Call{Callee: "f", Actuals: []Expr{&ConstInt{Value: 1}}, Lhs: ""},
	}}
	errs := Validate(prog)
	assert.NotEmpty(t, errs)
}

func TestValidateReservedNameCollision(t *testing.T) {
	prog := simpleProgram()
	prog.Main = &Seq{Stmts: []Stmt{
		&Assign{Var: "ret", Expr: &ConstInt{Value: 0}},
	}}
	errs := Validate(prog)
	assert.NotEmpty(t, errs)
}

func TestValidateEmptyInvariantsIsRejected(t *testing.T) {
	prog := simpleProgram()
	prog.Main = &Seq{Stmts: []Stmt{
		&While{Test: &ConstBool{Value: true}, Body: &Seq{}},
	}}
	errs := Validate(prog)
	assert.NotEmpty(t, errs)
}

func TestValidateSortConflict(t *testing.T) {
	prog := NewProgram()
	prog.Main = &Seq{Stmts: []Stmt{
		&Assign{Var: "x", Expr: &ConstInt{Value: 1}},
		&ArrayStore{Arr: "x", Index: &ConstInt{Value: 0}, Expr: &ConstInt{Value: 1}},
	}}
	errs := Validate(prog)
	assert.NotEmpty(t, errs)
}

func TestLiftInvariants(t *testing.T) {
	inv := &Invariant{Expr: &Bin{Op: OpGe, Left: &Var{Name: "i"}, Right: &ConstInt{Value: 0}}}
	w := &While{
		Test: &ConstBool{Value: true},
		Body: &Seq{Stmts: []Stmt{inv, &Assign{Var: "i", Expr: &ConstInt{Value: 1}}}},
	}
	LiftInvariants(w)

	assert.Len(t, w.Invariants, 1)
	assert.Equal(t, inv.Expr, w.Invariants[0])
	assert.Len(t, w.Body.(*Seq).Stmts, 1)

	t.Run("idempotent", func(t *testing.T) {
		LiftInvariants(w)
		assert.Len(t, w.Invariants, 1)
	})
}
