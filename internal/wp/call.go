package wp

import (
	"fmt"
	"sort"

	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/smtf"
	"github.com/lhaig/vcgen/internal/vcgctx"
)

// transformCall implements the modular call rule, spec.md §4.2 "Calls". It
// is the single most load-bearing rule in the generator: the caller learns
// exactly what the callee's contract promises, with every variable outside
// modifies(f) ∪ {lhs} held frame-equal to its pre-call value.
func transformCall(ctx *vcgctx.VcgContext, prog *ir.Program, call *ir.Call, post smtf.Term, policy smtf.OldPolicy) (smtf.Term, error) {
	spec, ok := prog.Procs.Get(call.Callee)
	if !ok {
		return nil, fmt.Errorf("wp: call to undefined procedure %q", call.Callee)
	}
	if len(spec.Params) != len(call.Actuals) {
		return nil, fmt.Errorf("wp: call to %q passes %d argument(s), expected %d", call.Callee, len(call.Actuals), len(spec.Params))
	}

	// Translate actuals in the caller's own ambient policy: they are
	// expressions evaluated in the current (pre-call) state.
	actualTerms := make([]smtf.Term, len(call.Actuals))
	for i, a := range call.Actuals {
		t, err := smtf.Translate(prog, a, policy, ctx.Funcs)
		if err != nil {
			return nil, err
		}
		actualTerms[i] = t
	}
	paramSubs := make([]smtf.Sub, len(spec.Params))
	for i, p := range spec.Params {
		paramSubs[i] = smtf.Sub{From: smtf.Sym{Name: p, Sort: smtf.SortInt}, To: actualTerms[i]}
	}

	// --- 1. Precondition check ---
	reqTerm, err := smtf.Translate(prog, spec.Requires, smtf.CallSite, ctx.Funcs)
	if err != nil {
		return nil, err
	}
	req := smtf.SubstAll(reqTerm, paramSubs)

	// --- 2/3. Snapshot + havoc ---
	// Every name gets exactly one fresh symbol of its fixed Sort — the
	// explicit per-name Sort (spec.md §9) means we never need the
	// source's "also allocate an array version just in case" workaround.
	fresh := ctx.Fresh()
	names := sortedVarNames(prog)
	freshSyms := make(map[string]smtf.Sym, len(names))
	for _, v := range names {
		sort := smtf.SortInt
		if prog.Vars[v] == ir.SortArray {
			sort = smtf.SortArray
		}
		freshSyms[v] = smtf.Sym{Name: fmt.Sprintf("%s_%d", v, fresh), Sort: sort}
	}

	havocSubs := make([]smtf.Sub, 0, len(names))
	for _, v := range names {
		havocSubs = append(havocSubs, smtf.Sub{From: varSymFor(prog, v), To: freshSyms[v]})
	}

	// --- 4. Frame ---
	modSet := make(map[string]bool, len(spec.Modifies)+1)
	for v := range spec.Modifies {
		modSet[v] = true
	}
	if call.Lhs != "" {
		modSet[call.Lhs] = true
	}

	var frameConds []smtf.Term
	for _, v := range names {
		if modSet[v] {
			continue
		}
		cur := varSymFor(prog, v)
		fr := freshSyms[v]
		if prog.Vars[v] == ir.SortArray {
			idxName := fmt.Sprintf("i_frame_%d", ctx.Fresh())
			idx := smtf.Sym{Name: idxName, Sort: smtf.SortInt}
			frameConds = append(frameConds, smtf.Forall{
				Bindings: []smtf.Binding{{Name: idxName, Sort: smtf.SortInt}},
				Body:     smtf.Eq(smtf.SelectT(fr, idx), smtf.SelectT(cur, idx)),
			})
		} else {
			frameConds = append(frameConds, smtf.Eq(fr, cur))
		}
	}
	frame := smtf.And(frameConds...)

	// --- 5. Ensures instantiation ---
	ensTerm, err := smtf.Translate(prog, spec.Ensures, smtf.CallSite, ctx.Funcs)
	if err != nil {
		return nil, err
	}
	ens := smtf.SubstAll(ensTerm, paramSubs)
	if call.Lhs != "" {
		ens = smtf.Subst(ens, smtf.Sym{Name: RetVar, Sort: smtf.SortInt}, freshSyms[call.Lhs])
	}
	ens = smtf.SubstAll(ens, havocSubs)

	ensuresPrime := smtf.And(ens, frame)

	// --- 6. VC fragment ---
	qHavoc := smtf.SubstAll(post, havocSubs)

	bindings := make([]smtf.Binding, 0, len(names))
	for _, v := range names {
		bindings = append(bindings, smtf.Binding{Name: freshSyms[v].Name, Sort: freshSyms[v].Sort})
	}
	vcCall := smtf.Forall{Bindings: bindings, Body: smtf.Implies(ensuresPrime, qHavoc)}

	fragment := smtf.And(req, vcCall)

	// Finally, bind the CallSite snapshot to the actual pre-call state:
	// substitute v_pre_call -> v everywhere, for every v in vars.
	preCallSubs := make([]smtf.Sub, 0, len(names))
	for _, v := range names {
		cur := varSymFor(prog, v)
		snap := smtf.Sym{Name: v + "_pre_call", Sort: cur.Sort}
		preCallSubs = append(preCallSubs, smtf.Sub{From: snap, To: cur})
	}
	return smtf.SubstAll(fragment, preCallSubs), nil
}

func sortedVarNames(prog *ir.Program) []string {
	names := make([]string, 0, len(prog.Vars))
	for v := range prog.Vars {
		names = append(names, v)
	}
	// Deterministic order keeps generated SMT-LIB stable across runs,
	// which matters for the vccache content hash and for diffable
	// debug output.
	sort.Strings(names)
	return names
}
