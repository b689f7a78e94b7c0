package ir

import (
	"fmt"
	"regexp"
)

// ValidationError reports one well-formedness problem found in a Program.
// Validation errors are the "ill-formed IR" error kind: reported as
// verification failure with a pinpointed statement, never a panic.
type ValidationError struct {
	Proc   string // enclosing procedure name, "" for main
	Stmt   Stmt   // nil if the problem is not statement-local
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Proc != "" {
		return fmt.Sprintf("%s: %s", e.Proc, e.Reason)
	}
	return e.Reason
}

var reservedSuffix = regexp.MustCompile(`(_old|_pre_call|_[0-9]+)$`)
var reservedFrame = regexp.MustCompile(`^i_frame_[0-9]+$`)

// IsReservedName reports whether name collides with a VCGen-internal symbol
// family (spec §6): "ret", and anything ending in "_old", "_pre_call", or
// "_<digits>", or matching "i_frame_<digits>" exactly.
func IsReservedName(name string) bool {
	if name == "ret" {
		return true
	}
	return reservedSuffix.MatchString(name) || reservedFrame.MatchString(name)
}

// Validate checks a Program end to end: reserved names, Return placement,
// CallExpr/Call arity against Procs, and per-name Sort consistency. It
// returns every error found rather than stopping at the first, so a single
// run surfaces all problems in one pass.
func Validate(prog *Program) []*ValidationError {
	var errs []*ValidationError

	for pair := prog.Procs.Oldest(); pair != nil; pair = pair.Next() {
		name, spec := pair.Key, pair.Value
		if IsReservedName(name) {
			errs = append(errs, &ValidationError{Proc: name, Reason: fmt.Sprintf("procedure name %q collides with a reserved VCGen symbol", name)})
		}
		for _, p := range spec.Params {
			if IsReservedName(p) {
				errs = append(errs, &ValidationError{Proc: name, Reason: fmt.Sprintf("parameter name %q collides with a reserved VCGen symbol", p)})
			}
		}
		errs = append(errs, validateExprCalls(prog, name, spec.Requires)...)
		errs = append(errs, validateExprCalls(prog, name, spec.Ensures)...)
		errs = append(errs, validateStmt(prog, name, spec.Body, true)...)
	}

	errs = append(errs, validateStmt(prog, "", prog.Main, false)...)

	errs = append(errs, validateSorts(prog)...)

	return errs
}

// validateStmt walks a statement tree, checking Return placement (legal only
// when insideProc), Call target existence, and recursing into nested
// statements and expressions.
func validateStmt(prog *Program, proc string, s Stmt, insideProc bool) []*ValidationError {
	var errs []*ValidationError
	switch st := s.(type) {
	case nil, *Skip:
		// nothing to check
	case *Seq:
		for _, sub := range st.Stmts {
			errs = append(errs, validateStmt(prog, proc, sub, insideProc)...)
		}
	case *If:
		errs = append(errs, validateExprCalls(prog, proc, st.Test)...)
		errs = append(errs, validateStmt(prog, proc, st.Then, insideProc)...)
		errs = append(errs, validateStmt(prog, proc, st.Else, insideProc)...)
	case *Assign:
		if IsReservedName(st.Var) {
			errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: fmt.Sprintf("assignment to reserved name %q", st.Var)})
		}
		errs = append(errs, validateExprCalls(prog, proc, st.Expr)...)
	case *ArrayStore:
		errs = append(errs, validateExprCalls(prog, proc, st.Index)...)
		errs = append(errs, validateExprCalls(prog, proc, st.Expr)...)
	case *Assume:
		errs = append(errs, validateExprCalls(prog, proc, st.Expr)...)
	case *Assert:
		errs = append(errs, validateExprCalls(prog, proc, st.Expr)...)
	case *While:
		if len(st.Invariants) == 0 {
			errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: "while loop has no invariants; its VC is unprovable by construction"})
		}
		errs = append(errs, validateExprCalls(prog, proc, st.Test)...)
		for _, inv := range st.Invariants {
			errs = append(errs, validateExprCalls(prog, proc, inv)...)
		}
		errs = append(errs, validateStmt(prog, proc, st.Body, insideProc)...)
	case *Return:
		if !insideProc {
			errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: "return statement outside a procedure body"})
		}
		if st.Expr != nil {
			errs = append(errs, validateExprCalls(prog, proc, st.Expr)...)
		}
	case *Call:
		spec, ok := prog.Procs.Get(st.Callee)
		if !ok {
			errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: fmt.Sprintf("call to undefined procedure %q", st.Callee)})
			break
		}
		if len(spec.Params) != len(st.Actuals) {
			errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: fmt.Sprintf("call to %q passes %d argument(s), expected %d", st.Callee, len(st.Actuals), len(spec.Params))})
		}
		for _, a := range st.Actuals {
			errs = append(errs, validateExprCalls(prog, proc, a)...)
		}
	case *Invariant:
		errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: "invariant marker survived outside a while body; the front-end must lift it into While.Invariants before validation"})
	default:
		errs = append(errs, &ValidationError{Proc: proc, Stmt: s, Reason: fmt.Sprintf("unsupported statement variant %T", s)})
	}
	return errs
}

// validateExprCalls recurses into an expression looking for CallExpr nodes
// whose callee is undefined or arity-mismatched, and unsupported variants.
func validateExprCalls(prog *Program, proc string, e Expr) []*ValidationError {
	var errs []*ValidationError
	switch ex := e.(type) {
	case nil, *ConstInt, *ConstBool, *Var, *Old:
		// leaves
	case *Select:
		errs = append(errs, validateExprCalls(prog, proc, ex.Base)...)
		errs = append(errs, validateExprCalls(prog, proc, ex.Index)...)
	case *Neg:
		errs = append(errs, validateExprCalls(prog, proc, ex.X)...)
	case *Not:
		errs = append(errs, validateExprCalls(prog, proc, ex.X)...)
	case *Bin:
		errs = append(errs, validateExprCalls(prog, proc, ex.Left)...)
		errs = append(errs, validateExprCalls(prog, proc, ex.Right)...)
	case *CallExpr:
		spec, ok := prog.Procs.Get(ex.Name)
		if !ok {
			errs = append(errs, &ValidationError{Proc: proc, Reason: fmt.Sprintf("CallExpr references undefined procedure %q", ex.Name)})
			break
		}
		if len(spec.Params) != len(ex.Args) {
			errs = append(errs, &ValidationError{Proc: proc, Reason: fmt.Sprintf("CallExpr %q has %d argument(s), expected %d", ex.Name, len(ex.Args), len(spec.Params))})
		}
		for _, a := range ex.Args {
			errs = append(errs, validateExprCalls(prog, proc, a)...)
		}
	default:
		errs = append(errs, &ValidationError{Proc: proc, Reason: fmt.Sprintf("unsupported expression variant %T", e)})
	}
	return errs
}

// validateSorts recomputes each name's Sort from its use sites and reports
// any name used inconsistently, and any name whose Vars entry disagrees
// with its inferred Sort. It never trusts a name's spelling.
func validateSorts(prog *Program) []*ValidationError {
	inferred := make(map[string]Sort)
	seen := make(map[string]bool)
	conflict := make(map[string]bool)

	mark := func(name string, s Sort) {
		if prior, ok := inferred[name]; ok && prior != s {
			conflict[name] = true
			return
		}
		inferred[name] = s
		seen[name] = true
	}

	var walkExpr func(Expr)
	walkExpr = func(e Expr) {
		switch ex := e.(type) {
		case *Var:
			mark(ex.Name, SortInt)
		case *Old:
			mark(ex.Name, SortInt)
		case *Select:
			switch b := ex.Base.(type) {
			case *Var:
				mark(b.Name, SortArray)
			case *Old:
				mark(b.Name, SortArray)
			}
			walkExpr(ex.Index)
		case *Neg:
			walkExpr(ex.X)
		case *Not:
			walkExpr(ex.X)
		case *Bin:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *CallExpr:
			for _, a := range ex.Args {
				walkExpr(a)
			}
		}
	}

	var walkStmt func(Stmt)
	walkStmt = func(s Stmt) {
		switch st := s.(type) {
		case *Seq:
			for _, sub := range st.Stmts {
				walkStmt(sub)
			}
		case *If:
			walkExpr(st.Test)
			walkStmt(st.Then)
			walkStmt(st.Else)
		case *Assign:
			mark(st.Var, SortInt)
			walkExpr(st.Expr)
		case *ArrayStore:
			mark(st.Arr, SortArray)
			walkExpr(st.Index)
			walkExpr(st.Expr)
		case *Assume:
			walkExpr(st.Expr)
		case *Assert:
			walkExpr(st.Expr)
		case *While:
			walkExpr(st.Test)
			for _, inv := range st.Invariants {
				walkExpr(inv)
			}
			walkStmt(st.Body)
		case *Return:
			if st.Expr != nil {
				walkExpr(st.Expr)
			}
		case *Call:
			for _, a := range st.Actuals {
				walkExpr(a)
			}
		}
	}

	for pair := prog.Procs.Oldest(); pair != nil; pair = pair.Next() {
		spec := pair.Value
		walkExpr(spec.Requires)
		walkExpr(spec.Ensures)
		walkStmt(spec.Body)
	}
	walkStmt(prog.Main)

	var errs []*ValidationError
	for name := range conflict {
		errs = append(errs, &ValidationError{Reason: fmt.Sprintf("variable %q is used both as an integer and as an array; sorts must not mix", name)})
	}
	for name, s := range inferred {
		if declared, ok := prog.Vars[name]; ok && declared != s && !conflict[name] {
			errs = append(errs, &ValidationError{Reason: fmt.Sprintf("variable %q declared as %v but used as %v", name, declared, s)})
		}
	}
	return errs
}

// LiftInvariants rewrites a While's Body in place, removing any top-level
// *Invariant markers and appending their expressions to Invariants. This is
// the step spec'd as happening "before WP runs" (§3 invariant): it is
// idempotent, and running it again on an already-lifted Body is a no-op.
func LiftInvariants(w *While) {
	seq, ok := w.Body.(*Seq)
	if !ok {
		return
	}
	var kept []Stmt
	for _, s := range seq.Stmts {
		if inv, ok := s.(*Invariant); ok {
			w.Invariants = append(w.Invariants, inv.Expr)
			continue
		}
		kept = append(kept, s)
	}
	seq.Stmts = kept
}
