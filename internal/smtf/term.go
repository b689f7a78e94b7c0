// Package smtf is the formula algebra and expression translator (E2F). It
// represents SMT-LIB formulas as a small typed Term tree rather than raw
// text, so substitution is a pure tree rewrite and structural equality
// (needed for idempotent-translation testing) is a plain comparison,
// following the recursive-emitter shape of the teacher's exprToSMT family
// but generalized from string concatenation to a reusable data type.
package smtf

import (
	"fmt"
	"sort"
	"strings"
)

// Sort is an SMT sort.
type Sort int

const (
	SortInt Sort = iota
	SortBool
	SortArray
)

func (s Sort) String() string {
	switch s {
	case SortInt:
		return "Int"
	case SortBool:
		return "Bool"
	case SortArray:
		return "(Array Int Int)"
	default:
		return "Int"
	}
}

// Term is any node in the formula tree: a constant, a symbol, an
// application of an operator or function, or a quantifier.
type Term interface {
	// SExpr renders the term as SMT-LIB 2 text.
	SExpr() string
	termNode()
}

// IntLit is an integer literal.
type IntLit struct{ Value int64 }

func (t IntLit) SExpr() string {
	if t.Value < 0 {
		return fmt.Sprintf("(- %d)", -t.Value)
	}
	return fmt.Sprintf("%d", t.Value)
}
func (IntLit) termNode() {}

// BoolLit is a boolean literal.
type BoolLit struct{ Value bool }

func (t BoolLit) SExpr() string {
	if t.Value {
		return "true"
	}
	return "false"
}
func (BoolLit) termNode() {}

// Sym is a free variable or constant symbol of a given Sort.
type Sym struct {
	Name string
	Sort Sort
}

func (t Sym) SExpr() string { return t.Name }
func (Sym) termNode()       {}

// App is the application of a fixed SMT-LIB operator or function symbol to
// a list of argument terms: "(Op Args...)".
type App struct {
	Op   string
	Args []Term
}

func (t App) SExpr() string {
	if len(t.Args) == 0 {
		return "(" + t.Op + ")"
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.SExpr()
	}
	return "(" + t.Op + " " + strings.Join(parts, " ") + ")"
}
func (App) termNode() {}

// Binding is one (name Sort) pair in a quantifier's variable list.
type Binding struct {
	Name string
	Sort Sort
}

// Forall is a universally quantified formula.
type Forall struct {
	Bindings []Binding
	Body     Term
}

func (t Forall) SExpr() string {
	parts := make([]string, len(t.Bindings))
	for i, b := range t.Bindings {
		parts[i] = fmt.Sprintf("(%s %s)", b.Name, b.Sort)
	}
	return fmt.Sprintf("(forall (%s) %s)", strings.Join(parts, " "), t.Body.SExpr())
}
func (Forall) termNode() {}

// Exists is an existentially quantified formula.
type Exists struct {
	Bindings []Binding
	Body     Term
}

func (t Exists) SExpr() string {
	parts := make([]string, len(t.Bindings))
	for i, b := range t.Bindings {
		parts[i] = fmt.Sprintf("(%s %s)", b.Name, b.Sort)
	}
	return fmt.Sprintf("(exists (%s) %s)", strings.Join(parts, " "), t.Body.SExpr())
}
func (Exists) termNode() {}

// --- convenience constructors mirroring the operators spec.md §3 names ---

func True() Term  { return BoolLit{true} }
func False() Term { return BoolLit{false} }

func Add(a, b Term) Term { return App{"+", []Term{a, b}} }
func Sub(a, b Term) Term { return App{"-", []Term{a, b}} }
func Mul(a, b Term) Term { return App{"*", []Term{a, b}} }
func Div(a, b Term) Term { return App{"div", []Term{a, b}} }
func NegT(a Term) Term   { return App{"-", []Term{a}} }

func Lt(a, b Term) Term { return App{"<", []Term{a, b}} }
func Le(a, b Term) Term { return App{"<=", []Term{a, b}} }
func Gt(a, b Term) Term { return App{">", []Term{a, b}} }
func Ge(a, b Term) Term { return App{">=", []Term{a, b}} }
func Eq(a, b Term) Term { return App{"=", []Term{a, b}} }
func Ne(a, b Term) Term { return Not(Eq(a, b)) }

func And(terms ...Term) Term {
	if len(terms) == 0 {
		return True()
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return App{"and", terms}
}

func Or(terms ...Term) Term {
	if len(terms) == 0 {
		return False()
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return App{"or", terms}
}

func Not(a Term) Term { return App{"not", []Term{a}} }

func Implies(a, b Term) Term { return App{"=>", []Term{a, b}} }

func SelectT(arr, idx Term) Term       { return App{"select", []Term{arr, idx}} }
func StoreT(arr, idx, val Term) Term   { return App{"store", []Term{arr, idx, val}} }
func ForallInt(name string, body Term) Term {
	return Forall{Bindings: []Binding{{Name: name, Sort: SortInt}}, Body: body}
}

// FreeSyms returns the distinct Sym nodes reachable from t, sorted by name
// for deterministic declaration order, excluding names bound by an enclosing
// quantifier.
func FreeSyms(t Term) []Sym {
	seen := make(map[string]Sym)
	var walk func(Term, map[string]bool)
	walk = func(t Term, bound map[string]bool) {
		switch n := t.(type) {
		case Sym:
			if !bound[n.Name] {
				seen[n.Name] = n
			}
		case App:
			for _, a := range n.Args {
				walk(a, bound)
			}
		case Forall:
			inner := cloneSet(bound)
			for _, b := range n.Bindings {
				inner[b.Name] = true
			}
			walk(n.Body, inner)
		case Exists:
			inner := cloneSet(bound)
			for _, b := range n.Bindings {
				inner[b.Name] = true
			}
			walk(n.Body, inner)
		}
	}
	walk(t, map[string]bool{})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Sym, len(names))
	for i, n := range names {
		out[i] = seen[n]
	}
	return out
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Subst substitutes every free occurrence of from.Name with to, leaving
// quantifier-bound occurrences of the same name untouched (capture-avoiding
// in the restricted sense that this IR never nests a bound name inside its
// own quantifier body as a free variable — fresh symbols are always chosen
// distinct from every in-scope name by construction, see the call rule in
// internal/wp).
func Subst(t Term, from Sym, to Term) Term {
	switch n := t.(type) {
	case IntLit, BoolLit:
		return t
	case Sym:
		if n.Name == from.Name {
			return to
		}
		return t
	case App:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = Subst(a, from, to)
		}
		return App{Op: n.Op, Args: args}
	case Forall:
		for _, b := range n.Bindings {
			if b.Name == from.Name {
				return t
			}
		}
		return Forall{Bindings: n.Bindings, Body: Subst(n.Body, from, to)}
	case Exists:
		for _, b := range n.Bindings {
			if b.Name == from.Name {
				return t
			}
		}
		return Exists{Bindings: n.Bindings, Body: Subst(n.Body, from, to)}
	default:
		return t
	}
}

// SubstAll applies a batch of substitutions in order, each one to the result
// of the previous ones, so a later pair also rewrites symbols that an earlier
// pair introduced. Call-site substitution relies on this order (parameters,
// then ret, then havoc): an actual argument substituted for a parameter is
// itself rewritten by the havoc pairs that follow.
func SubstAll(t Term, pairs []Sub) Term {
	for _, p := range pairs {
		t = Subst(t, p.From, p.To)
	}
	return t
}

// Sub is one (from -> to) substitution pair.
type Sub struct {
	From Sym
	To   Term
}
