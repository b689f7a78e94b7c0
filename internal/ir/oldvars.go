package ir

import "sort"

// OldVars returns the distinct variable names referenced inside any Old(·)
// node reachable from e, sorted for determinism. Used by the procedure
// verifier to decide which v_old snapshot assumptions an ensures clause
// actually needs.
func OldVars(e Expr) []string {
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch ex := e.(type) {
		case *Old:
			seen[ex.Name] = true
		case *Select:
			walk(ex.Base)
			walk(ex.Index)
		case *Neg:
			walk(ex.X)
		case *Not:
			walk(ex.X)
		case *Bin:
			walk(ex.Left)
			walk(ex.Right)
		case *CallExpr:
			for _, a := range ex.Args {
				walk(a)
			}
		}
	}
	walk(e)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
