// Package main provides the entry point for the croaudit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for croaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "croaudit",
		Short: "Compile CRO audit records into client-ready reports",
		Long: `croaudit turns structured conversion-rate-optimization audit records
into polished reports.

An external auditing agent inspects an e-commerce storefront and emits a
JSON record of scored findings. croaudit validates that record, computes
page and site scores, ranks the top findings, partitions the action plan,
and renders the result as HTML, Markdown, plain text, or JSON.

Compiled audits are saved locally, so a later run can be compared against
an earlier one with 'croaudit compare'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCompileCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
