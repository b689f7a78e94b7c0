package solver

import "context"

// Fake is a scripted Checker for unit tests that must not depend on a real
// z3 binary being on PATH. It records every command it receives and replays
// a caller-supplied sequence of CheckSat results, the same role
// lhaig-intent's verify_test.go fills by skipping entirely when z3 is
// absent — here, tests substitute Fake instead of skipping, so WP/translate
// logic stays covered even without the solver installed.
type Fake struct {
	Asserts []string
	Decls   []string
	Results []CheckResult
	next    int

	ModelText   string
	ReasonText  string
	PushCount   int
	PopCount    int
	ClosedCalls int
}

// NewFake returns a Fake that answers Results in order, then repeats the
// last entry for any extra CheckSat calls.
func NewFake(results ...CheckResult) *Fake {
	return &Fake{Results: results}
}

func (f *Fake) Push() error { f.PushCount++; return nil }
func (f *Fake) Pop() error  { f.PopCount++; return nil }

func (f *Fake) DeclareConst(name, sort string) error {
	f.Decls = append(f.Decls, name+" "+sort)
	return nil
}

func (f *Fake) DeclareFun(decl string) error {
	f.Decls = append(f.Decls, decl)
	return nil
}

func (f *Fake) Assert(sexpr string) error {
	f.Asserts = append(f.Asserts, sexpr)
	return nil
}

func (f *Fake) CheckSat(_ context.Context) (CheckResult, error) {
	if len(f.Results) == 0 {
		return Unsat, nil
	}
	if f.next >= len(f.Results) {
		return f.Results[len(f.Results)-1], nil
	}
	r := f.Results[f.next]
	f.next++
	return r, nil
}

func (f *Fake) Model() (string, error) { return f.ModelText, nil }

func (f *Fake) ReasonUnknown() (string, error) { return f.ReasonText, nil }

func (f *Fake) Close() error { f.ClosedCalls++; return nil }
