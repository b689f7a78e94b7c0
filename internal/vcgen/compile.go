package vcgen

import (
	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/smtf"
	"github.com/lhaig/vcgen/internal/vcgctx"
)

// compiled holds one procedure's contract translated under ProcEntry, plus
// the variables its ensures clause mentions via old(·) — the inputs every
// later step (snapshot assumptions, WP, the recursive-spec axiom) needs.
type compiled struct {
	spec     *ir.ProcSpec
	requires smtf.Term
	ensures  smtf.Term
	oldVars  []string
}

// compileAll translates every procedure's requires/ensures under ProcEntry
// exactly once. This doubles as the pass that populates ctx.Funcs: a
// procedure's uninterpreted function exists in the cache, after this pass,
// iff some requires/ensures in the program names it via CallExpr — which is
// precisely the axiom-eligibility test spec.md §4.3 step 7 asks for.
func compileAll(ctx *vcgctx.VcgContext, prog *ir.Program) (map[string]*compiled, error) {
	out := make(map[string]*compiled)
	for pair := prog.Procs.Oldest(); pair != nil; pair = pair.Next() {
		name, spec := pair.Key, pair.Value
		req, err := smtf.Translate(prog, spec.Requires, smtf.ProcEntry, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		ens, err := smtf.Translate(prog, spec.Ensures, smtf.ProcEntry, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		out[name] = &compiled{
			spec:     spec,
			requires: req,
			ensures:  ens,
			oldVars:  ir.OldVars(spec.Ensures),
		}
	}
	return out, nil
}

// oldSnapshotAssumptions returns "v_old = v" (scalar) and the array
// extensionality form for every name c.oldVars mentions — spec.md §4.3
// step 2.
func oldSnapshotAssumptions(ctx *vcgctx.VcgContext, prog *ir.Program, oldVars []string) []smtf.Term {
	var out []smtf.Term
	for _, v := range oldVars {
		cur := varSym(prog, v)
		old := smtf.Sym{Name: v + "_old", Sort: cur.Sort}
		if cur.Sort == smtf.SortArray {
			idxName := "i_old_frame_" + v
			idx := smtf.Sym{Name: idxName, Sort: smtf.SortInt}
			out = append(out, smtf.Forall{
				Bindings: []smtf.Binding{{Name: idxName, Sort: smtf.SortInt}},
				Body:     smtf.Eq(smtf.SelectT(old, idx), smtf.SelectT(cur, idx)),
			})
		} else {
			out = append(out, smtf.Eq(old, cur))
		}
	}
	return out
}

func varSym(prog *ir.Program, name string) smtf.Sym {
	sort := smtf.SortInt
	if prog.Vars[name] == ir.SortArray {
		sort = smtf.SortArray
	}
	return smtf.Sym{Name: name, Sort: sort}
}

// axiomFor builds the recursive-spec axiom for one procedure, given its
// compiled requires/ensures: "forall params, old-vars. Req => Ens[ret -> F(params)]".
// It does not check eligibility itself: buildAxioms calls it only for
// procedures in ctx.Funcs, and callers decide whether to submit the result
// (see axiomsExcluding).
func axiomFor(ctx *vcgctx.VcgContext, prog *ir.Program, name string, c *compiled) smtf.Term {
	f := ctx.Funcs.Get(name, len(c.spec.Params))

	paramSyms := make([]smtf.Term, len(c.spec.Params))
	bindings := make([]smtf.Binding, 0, len(c.spec.Params)+len(c.oldVars))
	for i, p := range c.spec.Params {
		sym := smtf.Sym{Name: p, Sort: smtf.SortInt}
		paramSyms[i] = sym
		bindings = append(bindings, smtf.Binding{Name: p, Sort: smtf.SortInt})
	}
	for _, v := range c.oldVars {
		sym := varSym(prog, v)
		bindings = append(bindings, smtf.Binding{Name: v + "_old", Sort: sym.Sort})
	}

	body := smtf.Subst(c.ensures, smtf.Sym{Name: "ret", Sort: smtf.SortInt}, smtf.App{Op: f.Name, Args: paramSyms})
	axiomBody := smtf.Implies(c.requires, body)
	if len(bindings) == 0 {
		return axiomBody
	}
	return smtf.Forall{Bindings: bindings, Body: axiomBody}
}

// buildAxioms returns every procedure's recursive-spec axiom, keyed by
// name, restricted to procedures that actually appear in ctx.Funcs (i.e.
// are referenced by some CallExpr somewhere in the program).
func buildAxioms(ctx *vcgctx.VcgContext, prog *ir.Program, compiledSpecs map[string]*compiled) map[string]smtf.Term {
	axioms := make(map[string]smtf.Term)
	for _, f := range ctx.Funcs.All() {
		c, ok := compiledSpecs[f.Name]
		if !ok {
			continue
		}
		axioms[f.Name] = axiomFor(ctx, prog, f.Name, c)
	}
	return axioms
}

// axiomsExcluding returns every axiom in axioms except the one named
// self — spec.md §9's resolved Open Question: never add f's own axiom when
// checking f's own VC, since it would let f's contract justify itself.
func axiomsExcluding(axioms map[string]smtf.Term, self string) []smtf.Term {
	var out []smtf.Term
	for name, t := range axioms {
		if name == self {
			continue
		}
		out = append(out, t)
	}
	return out
}
