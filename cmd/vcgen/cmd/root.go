package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via -ldflags "-X ...Version=...".
	Version = "0.1.0-dev"

	verbose bool
	logger  = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "vcgen",
	Short: "A deductive verifier for a small imperative language",
	Long: `vcgen computes weakest preconditions for procedures annotated with
requires/ensures contracts and loop invariants, translates the resulting
verification conditions to SMT-LIB2, and discharges them with z3.

It never parses the source language itself: input is the language's
intermediate representation, given as JSON (see "vcgen verify --help").`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	cobra.OnInitialize(func() {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
	})
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
