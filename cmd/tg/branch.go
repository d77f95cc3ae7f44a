package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/gitwork"
)

var branchCmd = &cobra.Command{
	Use:   "branch <issue> [origin-branch]",
	Short: "Create a git branch named after a tracker issue",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := trackerClient()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fail(fmt.Errorf("invalid issue id %q", args[0]))
		}
		origin := ""
		if len(args) == 2 {
			origin = args[1]
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		branch, err := branchName(cmd.Context(), tracker, id)
		if err != nil {
			return fail(err)
		}
		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), branch)
			return nil
		}
		if err := (gitwork.Git{}).Checkout(cmd.Context(), branch, origin); err != nil {
			return fail(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to branch %s\n", branch)
		return nil
	},
}

func init() {
	branchCmd.Flags().Bool("dry-run", false, "print the branch name without creating it")
}

func branchName(ctx context.Context, tracker issueShower, id int) (string, error) {
	issue, err := tracker.ShowIssue(ctx, id, "")
	if err != nil {
		return "", err
	}
	story, err := gitwork.StoryCode(issue)
	if err != nil {
		return "", err
	}
	_, _, name, err := gitwork.StoryParts(issue.Str("subject"))
	if err != nil {
		return "", err
	}
	return gitwork.ExpandTemplate(cfg.Git.BranchPattern, story, id, gitwork.SlugStoryName(name)), nil
}
