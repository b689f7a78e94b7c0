package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lhaig/vcgen/internal/ir"
	"github.com/lhaig/vcgen/internal/report"
	"github.com/lhaig/vcgen/internal/solver"
	"github.com/lhaig/vcgen/internal/vccache"
	"github.com/lhaig/vcgen/internal/vcgctx"
	"github.com/lhaig/vcgen/internal/vcgen"
)

var (
	z3Path    string
	timeout   time.Duration
	cachePath string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <program.json>",
	Short: "Verify every procedure and the top-level program in a JSON IR file",
	Long: `Reads a Program's JSON IR, validates it, and checks every procedure's
verification condition followed by the top-level program's, halting at the
first procedure that does not verify.

Examples:
  vcgen verify program.json
  vcgen verify --z3-path /usr/local/bin/z3 --timeout 10s program.json
  vcgen verify --cache vc.sqlite program.json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&z3Path, "z3-path", "", "path to the z3 binary (default: look up $PATH)")
	verifyCmd.Flags().DurationVar(&timeout, "timeout", vcgen.DefaultTimeout, "per-VC check-sat timeout")
	verifyCmd.Flags().StringVar(&cachePath, "cache", "", "sqlite file to cache VC outcomes in (default: no cache)")
}

func runVerify(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError("reading %s: %s", args[0], err)
	}

	prog, err := ir.ParseProgramJSON(data)
	if err != nil {
		exitWithError("parsing IR: %s", err)
	}

	if errs := ir.Validate(prog); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		exitWithError("%d validation error(s)", len(errs))
	}

	session, err := solver.Start(z3Path)
	if err != nil {
		exitWithError("starting z3: %s", err)
	}
	defer session.Close()

	var cache vcgen.OutcomeCache
	if cachePath != "" {
		c, err := vccache.Open(cachePath)
		if err != nil {
			exitWithError("opening cache: %s", err)
		}
		defer c.Close()
		cache = c
	}

	ctx := vcgctx.New(logger)
	result, err := vcgen.VerifyProgram(ctx, prog, session, cache, timeout)
	if err != nil {
		exitWithError("verifying: %s", err)
	}

	fmt.Print(report.Format(result))

	ok, summary := report.Summary(result)
	fmt.Println(summary)
	if !ok {
		os.Exit(1)
	}
	return nil
}
