package ir

import (
	"encoding/json"
	"fmt"
)

// This file implements the JSON encoding cmd/vcgen reads: a flat, explicit
// "kind"-tagged discriminated union for every Stmt and Expr variant. A
// front-end (out of scope here) is expected to emit this shape; internal/ir
// never infers a Sort from JSON text, it validates what it's given the same
// way it validates any other constructed Program (see Validate).
//
// encoding/json is used deliberately rather than a third-party codec: the
// interface trees here are heterogeneous and the dispatch has to happen by
// hand regardless of which library holds the decoder, so a generic JSON
// library buys nothing over the standard one for this particular shape.

type programJSON struct {
	Procs []procJSON        `json:"procs"`
	Vars  map[string]string `json:"vars"`
	Main  json.RawMessage   `json:"main"`
}

type procJSON struct {
	Name     string          `json:"name"`
	Params   []string        `json:"params"`
	Requires json.RawMessage `json:"requires"`
	Ensures  json.RawMessage `json:"ensures"`
	Modifies []string        `json:"modifies"`
	Body     json.RawMessage `json:"body"`
}

// ParseProgramJSON decodes a Program from its JSON wire form.
func ParseProgramJSON(data []byte) (*Program, error) {
	var pj programJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("ir: decoding program: %w", err)
	}

	prog := NewProgram()
	for name, sortStr := range pj.Vars {
		sort, err := parseSort(sortStr)
		if err != nil {
			return nil, fmt.Errorf("ir: var %q: %w", name, err)
		}
		prog.Vars[name] = sort
	}

	for _, p := range pj.Procs {
		requires, err := decodeExpr(p.Requires)
		if err != nil {
			return nil, fmt.Errorf("ir: proc %q requires: %w", p.Name, err)
		}
		ensures, err := decodeExpr(p.Ensures)
		if err != nil {
			return nil, fmt.Errorf("ir: proc %q ensures: %w", p.Name, err)
		}
		body, err := decodeStmt(p.Body)
		if err != nil {
			return nil, fmt.Errorf("ir: proc %q body: %w", p.Name, err)
		}
		modifies := make(map[string]bool, len(p.Modifies))
		for _, m := range p.Modifies {
			modifies[m] = true
		}
		prog.Procs.Set(p.Name, &ProcSpec{
			Name:     p.Name,
			Params:   p.Params,
			Requires: requires,
			Ensures:  ensures,
			Modifies: modifies,
			Body:     body,
		})
	}

	main, err := decodeStmt(pj.Main)
	if err != nil {
		return nil, fmt.Errorf("ir: main: %w", err)
	}
	prog.Main = main

	return prog, nil
}

func parseSort(s string) (Sort, error) {
	switch s {
	case "int", "Int", "":
		return SortInt, nil
	case "array", "Array":
		return SortArray, nil
	default:
		return SortInt, fmt.Errorf("unknown sort %q", s)
	}
}

type taggedJSON struct {
	Kind string `json:"kind"`
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var tag taggedJSON
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Kind {
	case "const_int":
		var v struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &ConstInt{Value: v.Value}, nil
	case "const_bool":
		var v struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &ConstBool{Value: v.Value}, nil
	case "var":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Var{Name: v.Name}, nil
	case "old":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Old{Name: v.Name}, nil
	case "select":
		var v struct {
			Base  json.RawMessage `json:"base"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		base, err := decodeExpr(v.Base)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(v.Index)
		if err != nil {
			return nil, err
		}
		return &Select{Base: base, Index: index}, nil
	case "neg":
		var v struct {
			X json.RawMessage `json:"x"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		x, err := decodeExpr(v.X)
		if err != nil {
			return nil, err
		}
		return &Neg{X: x}, nil
	case "not":
		var v struct {
			X json.RawMessage `json:"x"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		x, err := decodeExpr(v.X)
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	case "bin":
		var v struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		op, err := parseBinOp(v.Op)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &Bin{Op: op, Left: left, Right: right}, nil
	case "call":
		var v struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			e, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return &CallExpr{Name: v.Name, Args: args}, nil
	default:
		return nil, fmt.Errorf("unknown expr kind %q", tag.Kind)
	}
}

func parseBinOp(s string) (BinOp, error) {
	switch s {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSub, nil
	case "*":
		return OpMul, nil
	case "/":
		return OpDiv, nil
	case "<":
		return OpLt, nil
	case "<=":
		return OpLe, nil
	case ">":
		return OpGt, nil
	case ">=":
		return OpGe, nil
	case "=":
		return OpEq, nil
	case "!=":
		return OpNe, nil
	case "&&":
		return OpAnd, nil
	case "||":
		return OpOr, nil
	default:
		return 0, fmt.Errorf("unknown binary operator %q", s)
	}
}

func decodeStmt(data json.RawMessage) (Stmt, error) {
	if len(data) == 0 {
		return &Skip{}, nil
	}
	var tag taggedJSON
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Kind {
	case "skip":
		return &Skip{}, nil
	case "seq":
		var v struct {
			Stmts []json.RawMessage `json:"stmts"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		stmts := make([]Stmt, len(v.Stmts))
		for i, s := range v.Stmts {
			st, err := decodeStmt(s)
			if err != nil {
				return nil, err
			}
			stmts[i] = st
		}
		return &Seq{Stmts: stmts}, nil
	case "if":
		var v struct {
			Test json.RawMessage `json:"test"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		test, err := decodeExpr(v.Test)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmt(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStmt(v.Else)
		if err != nil {
			return nil, err
		}
		return &If{Test: test, Then: then, Else: els}, nil
	case "assign":
		var v struct {
			Var  string          `json:"var"`
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &Assign{Var: v.Var, Expr: e}, nil
	case "array_store":
		var v struct {
			Arr   string          `json:"arr"`
			Index json.RawMessage `json:"index"`
			Expr  json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		idx, err := decodeExpr(v.Index)
		if err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &ArrayStore{Arr: v.Arr, Index: idx, Expr: e}, nil
	case "assume":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &Assume{Expr: e}, nil
	case "assert":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &Assert{Expr: e}, nil
	case "invariant":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &Invariant{Expr: e}, nil
	case "while":
		var v struct {
			Test       json.RawMessage   `json:"test"`
			Body       json.RawMessage   `json:"body"`
			Invariants []json.RawMessage `json:"invariants"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		test, err := decodeExpr(v.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(v.Body)
		if err != nil {
			return nil, err
		}
		w := &While{Test: test, Body: body}
		for _, raw := range v.Invariants {
			inv, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			w.Invariants = append(w.Invariants, inv)
		}
		LiftInvariants(w)
		return w, nil
	case "return":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &Return{Expr: e}, nil
	case "call":
		var v struct {
			Callee  string            `json:"callee"`
			Actuals []json.RawMessage `json:"actuals"`
			Lhs     string            `json:"lhs"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		actuals := make([]Expr, len(v.Actuals))
		for i, a := range v.Actuals {
			e, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			actuals[i] = e
		}
		return &Call{Callee: v.Callee, Actuals: actuals, Lhs: v.Lhs}, nil
	default:
		return nil, fmt.Errorf("unknown stmt kind %q", tag.Kind)
	}
}

