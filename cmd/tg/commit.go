package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/gitwork"
)

var commitCmd = &cobra.Command{
	Use:   "commit <issue>",
	Short: "Compose a commit message from a tracker issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := trackerClient()
		if err != nil {
			return err
		}
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fail(fmt.Errorf("invalid issue id %q", args[0]))
		}
		out := cmd.OutOrStdout()

		issue, err := tracker.ShowIssue(cmd.Context(), id, "")
		if err != nil {
			return fail(err)
		}
		story, err := gitwork.StoryCode(issue)
		if err != nil {
			return fail(err)
		}
		storyName, err := gitwork.CleanStoryName(issue.Str("subject"), story)
		if err != nil {
			return fail(err)
		}
		storyName = gitwork.CommitStoryName(storyName)

		fmt.Fprintf(out, "Issue Number: %d\n", id)
		fmt.Fprintf(out, "Jira Story Code: %s\n", story)
		fmt.Fprintf(out, "Story Name: %s\n", storyName)

		ok, err := confirm("Are these informations correct?")
		if err != nil {
			return fail(err)
		}
		if !ok {
			fmt.Fprintln(out, "Fix the issue on the tracker and retry.")
			return nil
		}

		prefix := gitwork.ExpandTemplate(cfg.Git.CommitPattern, story, id, storyName)
		suffix, err := ask("Commit message:")
		if err != nil {
			return fail(err)
		}
		message := prefix
		if suffix != "" {
			message += " " + suffix
		}
		fmt.Fprintln(out, message)

		execute, _ := cmd.Flags().GetBool("execute")
		if !execute {
			return nil
		}
		ok, err = confirm("Should I execute?")
		if err != nil {
			return fail(err)
		}
		if !ok {
			return nil
		}
		noVerify, _ := cmd.Flags().GetBool("no-verify")
		if err := (gitwork.Git{}).Commit(cmd.Context(), message, noVerify); err != nil {
			return fail(err)
		}
		fmt.Fprintln(out, "Committed!")
		return nil
	},
}

func init() {
	f := commitCmd.Flags()
	f.BoolP("execute", "e", false, "run git commit with the composed message")
	f.Bool("no-verify", false, "pass --no-verify to git commit")
}
