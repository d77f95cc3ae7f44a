package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/format"
	"github.com/stokewood/triage/internal/record"
	"github.com/stokewood/triage/internal/reduce"
	"github.com/stokewood/triage/internal/resolve"
)

// Upstream pagination is open-ended, so a runaway loop is cut after a
// fixed page budget.
const maxSearchPages = 20

// ErrPageCapExhausted reports that the page budget ran out before the
// requested number of merge requests was collected.
var ErrPageCapExhausted = errors.New("too many result pages, narrow the search or lower the limit")

const mergeFields = "id|ID,title|Title,state|Status,created_at|Created,updated_at|Updated," +
	"source_branch|From Branch,target_branch|To Branch,upvotes|Upvotes,downvotes|Downvotes," +
	"author.name|Author,assignee.name|Assignee"

// mergeLister is the merge-request host capability of mr search.
type mergeLister interface {
	ListMergeRequests(ctx context.Context, projectID, page, perPage int) ([]record.Record, error)
}

type mrSearchOptions struct {
	Issue    string
	Story    string
	Limit    int
	Position string
}

var mrCmd = &cobra.Command{
	Use:   "mr",
	Short: "Work with merge requests",
}

var mrSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search merge requests by issue or story",
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := mrHostClient()
		if err != nil {
			return err
		}
		flags := cmd.Flags()

		var opts mrSearchOptions
		opts.Issue, _ = flags.GetString("issue")
		opts.Story, _ = flags.GetString("story")
		opts.Limit, _ = flags.GetInt("limit")
		opts.Position, _ = flags.GetString("position")

		project, _ := flags.GetString("project_id")
		if project == "" {
			project = cfg.MRHost.ProjectID
		}
		projectID, done, err := resolveMRProject(cmd, host, project)
		if err != nil || done {
			return err
		}

		if err := runMRSearch(cmd.Context(), host, projectID, opts, cmd.OutOrStdout()); err != nil {
			return fail(err)
		}
		return nil
	},
}

func init() {
	f := mrSearchCmd.Flags()
	f.String("issue", "", "issue id the merge requests must mention")
	f.String("story", "", "story code the merge requests must mention")
	f.Int("limit", 10, "maximum number of merge requests")
	f.String("position", "branch", `field the filters match against, "branch" or "title"`)
	f.StringP("project_id", "p", "", "project id or name on the merge-request host")
	mrCmd.AddCommand(mrSearchCmd)
}

// resolveMRProject turns a project name into its numeric id, printing
// the candidate list and stopping the command when the name is
// ambiguous. The boolean reports that the command already finished.
func resolveMRProject(cmd *cobra.Command, host resolve.ProjectSearcher, project string) (int, bool, error) {
	if project == "" {
		return 0, true, fail(errors.New("a merge-request host project id is required"))
	}
	if id, err := strconv.Atoi(project); err == nil {
		return id, false, nil
	}

	c, err := lookupCache()
	if err != nil {
		return 0, true, fail(err)
	}
	id, candidates, err := resolve.NewProjectResolver(host, c).ProjectID(cmd.Context(), project)
	if err != nil {
		return 0, true, fail(err)
	}
	if len(candidates) > 0 {
		printProjectCandidates(cmd.OutOrStdout(), candidates)
		return 0, true, nil
	}
	return id, false, nil
}

func runMRSearch(ctx context.Context, host mergeLister, projectID int, opts mrSearchOptions, out io.Writer) error {
	if opts.Issue == "" && opts.Story == "" {
		return errors.New("you need to specify a story id or a issue id")
	}
	field := "source_branch"
	if opts.Position == "title" {
		field = "title"
	} else if opts.Position != "branch" {
		return fmt.Errorf("invalid position %q, expected \"branch\" or \"title\"", opts.Position)
	}

	merges, err := collectMergeRequests(ctx, host, projectID, opts.Limit, func(batch []record.Record) []record.Record {
		if opts.Issue != "" {
			batch = reduce.FilterContains(batch, opts.Issue, field)
		}
		if opts.Story != "" {
			batch = reduce.FilterContains(batch, opts.Story, field)
		}
		return batch
	})
	if err != nil {
		return err
	}
	if len(merges) == 0 {
		fmt.Fprintln(out, "No Merge Requests found.")
		return nil
	}

	spec, err := format.ParseFieldSpec(mergeFields)
	if err != nil {
		return err
	}
	format.WriteTable(out, spec, merges, format.MergeWidth)
	return nil
}

// collectMergeRequests pages through the host listing, keeping the
// records that survive the per-page filter, until limit matches are
// gathered or the listing runs dry.
func collectMergeRequests(ctx context.Context, host mergeLister, projectID, limit int, keep func([]record.Record) []record.Record) ([]record.Record, error) {
	var merges []record.Record
	for page := 1; len(merges) < limit; page++ {
		if page > maxSearchPages {
			return nil, ErrPageCapExhausted
		}
		batch, err := host.ListMergeRequests(ctx, projectID, page, limit)
		if err != nil {
			return nil, err
		}
		short := len(batch) < limit
		merges = append(merges, keep(batch)...)
		if short {
			break
		}
	}
	if len(merges) > limit {
		merges = merges[:limit]
	}
	return merges, nil
}
