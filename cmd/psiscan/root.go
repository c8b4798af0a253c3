package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for psiscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psiscan",
		Short: "Extract and anonymize personally sensitive information in CVs",
		Long: `psiscan finds personally sensitive information (PSI) in CVs stored as JSON
files and prints each file's PSI together with an anonymized copy.

Pattern-based attributes (names, date of birth, gender, age, nationality,
marital status) are found with regular expressions. Organizations, education,
locations and people are found by a named-entity recognizer: a local ONNX
model, a remote HTTP service, or a configured phrase list.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
