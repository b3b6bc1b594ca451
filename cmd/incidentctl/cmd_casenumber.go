package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/incident-reports-api/casenumber"
)

var caseNumberCmd = &cobra.Command{
	Use:   "case-number",
	Short: "Inspect case numbers",
}

var caseNumberParseCmd = &cobra.Command{
	Use:   "parse <case-number>",
	Short: "Split a case number into its date and sequence",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseNumberParse,
}

func init() {
	caseNumberCmd.AddCommand(caseNumberParseCmd)
}

func runCaseNumberParse(cmd *cobra.Command, args []string) error {
	cn, ok := casenumber.Parse(strings.ToUpper(strings.TrimSpace(args[0])))
	if !ok {
		return fmt.Errorf("invalid case number %q", args[0])
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Case:     %s\n", cn.String())
	fmt.Fprintf(out, "Date:     %s\n", cn.Date.Format("2006-01-02"))
	fmt.Fprintf(out, "Sequence: %d\n", cn.Sequence)
	return nil
}
