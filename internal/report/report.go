// Package report formats a vcgen.Result as human-readable text — spec.md
// §6's three textual outcomes, plus a summary line. Grounded on
// lhaig-intent/internal/verify/report.go's FormatReport, generalized from
// "intent description -> verified_by refs" to "program -> procedures".
package report

import (
	"fmt"
	"strings"

	"github.com/lhaig/vcgen/internal/vcgen"
)

// Format produces the full report for one verification run.
func Format(result *vcgen.Result) string {
	var sb strings.Builder

	sb.WriteString("Verification Report\n")
	sb.WriteString("====================\n\n")

	verified := 0
	for _, o := range result.Procs {
		fmt.Fprintf(&sb, "  %-30s %s\n", o.Name, o.Status)
		if o.Status == vcgen.Verified {
			verified++
		}
		writeDetail(&sb, o)
	}

	total := len(result.Procs)
	if total > 0 {
		fmt.Fprintf(&sb, "\n  %d of %d procedures verified\n", verified, total)
	}

	if result.Program != nil {
		fmt.Fprintf(&sb, "\n  %-30s %s\n", result.Program.Name, result.Program.Status)
		writeDetail(&sb, result.Program)
	} else {
		sb.WriteString("\n  program: not checked (a procedure failed first)\n")
	}

	return sb.String()
}

func writeDetail(sb *strings.Builder, o *vcgen.Outcome) {
	switch o.Status {
	case vcgen.Failed:
		if o.Model != "" {
			fmt.Fprintf(sb, "    counterexample:\n")
			for _, line := range strings.Split(o.Model, "\n") {
				fmt.Fprintf(sb, "      %s\n", line)
			}
		}
	case vcgen.Unknown:
		if o.Reason != "" {
			fmt.Fprintf(sb, "    reason: %s\n", o.Reason)
		}
	}
}

// Summary reports whether the whole run succeeded, for the CLI's exit code.
func Summary(result *vcgen.Result) (ok bool, text string) {
	if result.AllVerified() {
		return true, fmt.Sprintf("all %d procedures and the program verified", len(result.Procs))
	}
	return false, "verification failed; see report above"
}
