package smtf

import (
	"fmt"

	"github.com/lhaig/vcgen/internal/ir"
)

// OldPolicy selects what Old(v) translates to — spec.md §4.1.
type OldPolicy int

const (
	// CallSite: Old(v) -> v_pre_call, the snapshot taken immediately
	// before a call. Used when translating a callee's contract at a call
	// site.
	CallSite OldPolicy = iota
	// ProcEntry: Old(v) -> v_old, the snapshot bound by the procedure
	// verifier at entry. Used when translating a procedure's own
	// contract inside its own VC.
	ProcEntry
)

func (p OldPolicy) suffix() string {
	if p == ProcEntry {
		return "_old"
	}
	return "_pre_call"
}

// FuncCache lazily allocates one uninterpreted function per CallExpr
// callee, shared across every occurrence and every VC so that axioms bind
// to the same symbol they were stated about.
type FuncCache struct {
	funcs map[string]*UninterpretedFunc
}

// NewFuncCache returns an empty cache.
func NewFuncCache() *FuncCache {
	return &FuncCache{funcs: make(map[string]*UninterpretedFunc)}
}

// UninterpretedFunc is the SMT declaration backing a spec-level CallExpr.
type UninterpretedFunc struct {
	Name  string
	Arity int
}

// Decl renders the declare-fun form for this function.
func (f *UninterpretedFunc) Decl() string {
	args := ""
	for i := 0; i < f.Arity; i++ {
		if i > 0 {
			args += " "
		}
		args += "Int"
	}
	return fmt.Sprintf("(declare-fun %s (%s) Int)", f.Name, args)
}

// Get returns the cached function for callee, allocating it on first use.
// Arity is taken from the callee's own parameter list, per spec.md §4.1.
func (c *FuncCache) Get(callee string, arity int) *UninterpretedFunc {
	if f, ok := c.funcs[callee]; ok {
		return f
	}
	f := &UninterpretedFunc{Name: callee, Arity: arity}
	c.funcs[callee] = f
	return f
}

// All returns every function allocated so far, for declaration emission.
func (c *FuncCache) All() []*UninterpretedFunc {
	out := make([]*UninterpretedFunc, 0, len(c.funcs))
	for _, f := range c.funcs {
		out = append(out, f)
	}
	return out
}

// varSym returns the current-state symbol for a variable, with Sort taken
// from prog.Vars.
func varSym(prog *ir.Program, name string) Sym {
	sort := SortInt
	if prog.Vars[name] == ir.SortArray {
		sort = SortArray
	}
	return Sym{Name: name, Sort: sort}
}

// oldSym returns the snapshot symbol for a variable under the given policy.
func oldSym(prog *ir.Program, name string, policy OldPolicy) Sym {
	sort := SortInt
	if prog.Vars[name] == ir.SortArray {
		sort = SortArray
	}
	return Sym{Name: name + policy.suffix(), Sort: sort}
}

// Translate is E2F: translates an IR expression to a Term under the given
// OldPolicy. prog supplies each name's Sort and each CallExpr callee's
// arity; funcs is the shared uninterpreted-function cache.
func Translate(prog *ir.Program, e ir.Expr, policy OldPolicy, funcs *FuncCache) (Term, error) {
	switch ex := e.(type) {
	case *ir.ConstInt:
		return IntLit{ex.Value}, nil
	case *ir.ConstBool:
		return BoolLit{ex.Value}, nil
	case *ir.Var:
		return varSym(prog, ex.Name), nil
	case *ir.Old:
		return oldSym(prog, ex.Name, policy), nil
	case *ir.Select:
		idx, err := Translate(prog, ex.Index, policy, funcs)
		if err != nil {
			return nil, err
		}
		var base Term
		switch b := ex.Base.(type) {
		case *ir.Var:
			base = varSym(prog, b.Name)
		case *ir.Old:
			base = oldSym(prog, b.Name, policy)
		default:
			return nil, fmt.Errorf("smtf: Select base must be Var or Old, got %T", ex.Base)
		}
		return SelectT(base, idx), nil
	case *ir.Neg:
		x, err := Translate(prog, ex.X, policy, funcs)
		if err != nil {
			return nil, err
		}
		return NegT(x), nil
	case *ir.Not:
		x, err := Translate(prog, ex.X, policy, funcs)
		if err != nil {
			return nil, err
		}
		return Not(x), nil
	case *ir.Bin:
		l, err := Translate(prog, ex.Left, policy, funcs)
		if err != nil {
			return nil, err
		}
		r, err := Translate(prog, ex.Right, policy, funcs)
		if err != nil {
			return nil, err
		}
		return translateBin(ex.Op, l, r)
	case *ir.CallExpr:
		spec, ok := prog.Procs.Get(ex.Name)
		if !ok {
			return nil, fmt.Errorf("smtf: CallExpr references undefined procedure %q", ex.Name)
		}
		args := make([]Term, len(ex.Args))
		for i, a := range ex.Args {
			t, err := Translate(prog, a, policy, funcs)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		f := funcs.Get(ex.Name, len(spec.Params))
		return App{Op: f.Name, Args: args}, nil
	default:
		return nil, fmt.Errorf("smtf: unsupported expression variant %T", e)
	}
}

func translateBin(op ir.BinOp, l, r Term) (Term, error) {
	switch op {
	case ir.OpAdd:
		return Add(l, r), nil
	case ir.OpSub:
		return Sub(l, r), nil
	case ir.OpMul:
		return Mul(l, r), nil
	case ir.OpDiv:
		return Div(l, r), nil
	case ir.OpLt:
		return Lt(l, r), nil
	case ir.OpLe:
		return Le(l, r), nil
	case ir.OpGt:
		return Gt(l, r), nil
	case ir.OpGe:
		return Ge(l, r), nil
	case ir.OpEq:
		return Eq(l, r), nil
	case ir.OpNe:
		return Ne(l, r), nil
	case ir.OpAnd:
		return And(l, r), nil
	case ir.OpOr:
		return Or(l, r), nil
	default:
		return nil, fmt.Errorf("smtf: unsupported binary operator %v", op)
	}
}
