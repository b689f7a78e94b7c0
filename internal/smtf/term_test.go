package smtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSExprRendering(t *testing.T) {
	t.Run("literals", func(t *testing.T) {
		assert.Equal(t, "3", IntLit{3}.SExpr())
		assert.Equal(t, "(- 3)", IntLit{-3}.SExpr())
		assert.Equal(t, "true", True().SExpr())
		assert.Equal(t, "false", False().SExpr())
	})

	t.Run("app", func(t *testing.T) {
		x := Sym{Name: "x", Sort: SortInt}
		assert.Equal(t, "(+ x 1)", Add(x, IntLit{1}).SExpr())
		assert.Equal(t, "(select a i)", SelectT(Sym{Name: "a"}, Sym{Name: "i"}).SExpr())
	})

	t.Run("and or identities", func(t *testing.T) {
		assert.Equal(t, True(), And())
		assert.Equal(t, False(), Or())
		x := Sym{Name: "x"}
		assert.Equal(t, x, And(x))
		assert.Equal(t, x, Or(x))
	})

	t.Run("forall", func(t *testing.T) {
		f := ForallInt("i", Ge(Sym{Name: "i"}, IntLit{0}))
		assert.Equal(t, "(forall ((i Int)) (>= i 0))", f.SExpr())
	})
}

func TestFreeSyms(t *testing.T) {
	x := Sym{Name: "x", Sort: SortInt}
	y := Sym{Name: "y", Sort: SortInt}

	t.Run("plain app", func(t *testing.T) {
		syms := FreeSyms(Add(x, y))
		assert.Equal(t, []Sym{x, y}, syms)
	})

	t.Run("quantifier hides its own binding", func(t *testing.T) {
		f := Forall{
			Bindings: []Binding{{Name: "i", Sort: SortInt}},
			Body:     And(Ge(Sym{Name: "i"}, IntLit{0}), Lt(Sym{Name: "i"}, x)),
		}
		syms := FreeSyms(f)
		assert.Equal(t, []Sym{x}, syms)
	})
}

func TestSubst(t *testing.T) {
	x := Sym{Name: "x", Sort: SortInt}

	t.Run("scalar rewrite", func(t *testing.T) {
		post := Gt(x, IntLit{0})
		got := Subst(post, x, Add(x, IntLit{1}))
		assert.Equal(t, "(> (+ x 1) 0)", got.SExpr())
	})

	t.Run("quantifier shadowing is respected", func(t *testing.T) {
		shadowed := Sym{Name: "x", Sort: SortInt}
		f := Forall{
			Bindings: []Binding{{Name: "x", Sort: SortInt}},
			Body:     Gt(shadowed, IntLit{0}),
		}
		got := Subst(f, x, IntLit{99})
		assert.Equal(t, f.SExpr(), got.SExpr())
	})

	t.Run("SubstAll applies in order", func(t *testing.T) {
		y := Sym{Name: "y", Sort: SortInt}
		got := SubstAll(Add(x, y), []Sub{
			{From: x, To: IntLit{1}},
			{From: y, To: IntLit{2}},
		})
		assert.Equal(t, "(+ 1 2)", got.SExpr())
	})
}

func TestIdempotentSExpr(t *testing.T) {
	x := Sym{Name: "x", Sort: SortInt}
	t1 := Implies(Gt(x, IntLit{0}), Eq(x, Add(x, IntLit{0})))
	assert.Equal(t, t1.SExpr(), t1.SExpr())
}
