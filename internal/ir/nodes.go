// Package ir defines the intermediate representation consumed by the
// verification-condition generator: expressions, statements, procedure
// specifications, and the top-level program. Values of these types are
// produced by a front-end (out of scope here) and consumed read-only by
// internal/smtf, internal/wp and internal/vcgen.
package ir

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Sort is the SMT sort a variable name denotes. Every name in a Program's
// Vars has exactly one Sort, supplied when the Program is built
// (ParseProgramJSON takes it from the "vars" object). Validate infers each
// name's Sort from its use sites and reports a name whose uses mix sorts or
// disagree with its Vars entry; it does not add missing names to Vars, and a
// name absent from Vars is translated as SortInt. A Sort is never inferred
// from the name's spelling.
type Sort int

const (
	// SortInt is the default: an integer-valued scalar.
	SortInt Sort = iota
	// SortArray marks a name used as the base of a Select or ArrayStore.
	SortArray
)

func (s Sort) String() string {
	switch s {
	case SortInt:
		return "Int"
	case SortArray:
		return "(Array Int Int)"
	default:
		return "Int"
	}
}

// Program is the sole input to the core: a set of named procedures, the set
// of variable names referenced anywhere in the program (with their fixed
// Sort), and a top-level statement sequence.
type Program struct {
	// Procs is insertion-ordered so that procedure iteration order is
	// stable and documented (spec requirement): procedures are verified
	// in the order they were added, never re-sorted by name.
	Procs *orderedmap.OrderedMap[string, *ProcSpec]
	Vars  map[string]Sort
	Main  Stmt // a Seq; never contains Return
}

// NewProgram returns an empty Program ready for incremental construction.
func NewProgram() *Program {
	return &Program{
		Procs: orderedmap.New[string, *ProcSpec](),
		Vars:  make(map[string]Sort),
	}
}

// ProcSpec is a procedure's full contract and body.
type ProcSpec struct {
	Name     string
	Params   []string
	Requires Expr
	Ensures  Expr
	Modifies map[string]bool
	Body     Stmt // a Seq
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is the tagged-variant interface implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// Skip does nothing.
type Skip struct{}

func (*Skip) stmtNode() {}

// Seq is an ordered sequence of statements.
type Seq struct {
	Stmts []Stmt
}

func (*Seq) stmtNode() {}

// If is a two-armed conditional.
type If struct {
	Test Expr
	Then Stmt
	Else Stmt
}

func (*If) stmtNode() {}

// Assign sets a scalar variable.
type Assign struct {
	Var  string
	Expr Expr
}

func (*Assign) stmtNode() {}

// ArrayStore sets one element of an array variable.
type ArrayStore struct {
	Arr   string
	Index Expr
	Expr  Expr
}

func (*ArrayStore) stmtNode() {}

// Assume narrows the state to one satisfying Expr.
type Assume struct {
	Expr Expr
}

func (*Assume) stmtNode() {}

// Assert demands Expr hold in the current state.
type Assert struct {
	Expr Expr
}

func (*Assert) stmtNode() {}

// While is a loop guarded by Test, proved via Invariants.
type While struct {
	Test       Expr
	Body       Stmt // a Seq
	Invariants []Expr
}

func (*While) stmtNode() {}

// Return yields a procedure's result; legal only inside a ProcSpec.Body.
type Return struct {
	Expr Expr
}

func (*Return) stmtNode() {}

// Call invokes a procedure, optionally binding its result to Lhs.
type Call struct {
	Callee  string
	Actuals []Expr
	Lhs     string // "" if the result is discarded
}

func (*Call) stmtNode() {}

// Invariant is a marker consumed by the front-end/validator and lifted into
// the enclosing While's Invariants list before WP ever runs; it is
// semantically transparent wherever it survives (wp(Invariant(_), P) = P).
type Invariant struct {
	Expr Expr
}

func (*Invariant) stmtNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is the tagged-variant interface implemented by every expression node.
type Expr interface {
	exprNode()
}

// ConstInt is an integer literal.
type ConstInt struct {
	Value int64
}

func (*ConstInt) exprNode() {}

// ConstBool is a boolean literal.
type ConstBool struct {
	Value bool
}

func (*ConstBool) exprNode() {}

// Var references a variable's current-state value.
type Var struct {
	Name string
}

func (*Var) exprNode() {}

// Old references a variable's value in a designated earlier state — the
// procedure-entry state or the pre-call state, depending on the OldPolicy in
// force where this expression is translated.
type Old struct {
	Name string
}

func (*Old) exprNode() {}

// Select reads one element of an array. Base must be *Var or *Old.
type Select struct {
	Base  Expr
	Index Expr
}

func (*Select) exprNode() {}

// Neg is arithmetic negation.
type Neg struct {
	X Expr
}

func (*Neg) exprNode() {}

// BinOp identifies an arithmetic, relational, or boolean binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
)

// Bin is a binary expression.
type Bin struct {
	Op          BinOp
	Left, Right Expr
}

func (*Bin) exprNode() {}

// Not is boolean negation.
type Not struct {
	X Expr
}

func (*Not) exprNode() {}

// CallExpr invokes a pure function inside a specification: application of
// the uninterpreted function axiomatised by Name's own contract.
type CallExpr struct {
	Name string
	Args []Expr
}

func (*CallExpr) exprNode() {}
