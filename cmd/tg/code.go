package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/format"
)

const codeIssueFields = "number|ID,title|Title,html_url|URL,state|State"

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Work with the code host",
}

var codeSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "List open issues on the code host repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := codeHostClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		issues, err := host.ListIssues(cmd.Context(), cfg.CodeHost.Owner, cfg.CodeHost.Repo, "open")
		if err != nil {
			return fail(err)
		}
		if len(issues) == 0 {
			fmt.Fprintln(out, "No issues found.")
			return nil
		}
		spec, err := format.ParseFieldSpec(codeIssueFields)
		if err != nil {
			return fail(err)
		}
		format.WriteTable(out, spec, issues, format.IssueWidth)
		return nil
	},
}

func init() {
	codeCmd.AddCommand(codeSearchCmd)
}
