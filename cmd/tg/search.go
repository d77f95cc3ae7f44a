package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stokewood/triage/internal/client"
	"github.com/stokewood/triage/internal/format"
	"github.com/stokewood/triage/internal/preset"
	"github.com/stokewood/triage/internal/query"
	"github.com/stokewood/triage/internal/reduce"
	"github.com/stokewood/triage/internal/resolve"
)

type searchOptions struct {
	query.RawOptions
	NotEstimated  bool
	Subject       string
	PriorityOrder string
	Fields        []string
	Report        bool
}

// searchEnv bundles the capabilities one search invocation draws on.
type searchEnv struct {
	issues         client.Querier
	listings       client.Lister
	deps           query.Deps
	defaultProject string
	issueFields    string
}

func newSearchEnv(tracker *client.Tracker) *searchEnv {
	r := resolve.NewResolver(tracker)
	return &searchEnv{
		issues:   tracker,
		listings: tracker,
		deps: query.Deps{
			Statuses:   tracker,
			Users:      r,
			Versions:   r,
			Trackers:   r,
			Categories: r,
		},
		defaultProject: cfg.Tracker.ProjectID,
		issueFields:    cfg.Output.IssueFields,
	}
}

var issueSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tracker issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := trackerClient()
		if err != nil {
			return err
		}
		flags := cmd.Flags()

		if name, _ := flags.GetString("preset"); name != "" {
			store, err := presetStore()
			if err != nil {
				return fail(err)
			}
			if err := applyPreset(flags, store, name); err != nil {
				return fail(err)
			}
		}

		var opts searchOptions
		opts.Limit, _ = flags.GetInt("limit")
		opts.Sort, _ = flags.GetString("sort")
		opts.ProjectID, _ = flags.GetString("project_id")
		opts.Status, _ = flags.GetString("status")
		opts.Assigned, _ = flags.GetString("assigned")
		opts.Sprint, _ = flags.GetString("sprint")
		opts.Created, _ = flags.GetStringArray("created")
		opts.Updated, _ = flags.GetStringArray("updated")
		opts.Tracker, _ = flags.GetString("tracker")
		opts.Category, _ = flags.GetString("category")
		opts.NotEstimated, _ = flags.GetBool("not-estimated")
		opts.Subject, _ = flags.GetString("subject")
		opts.PriorityOrder, _ = flags.GetString("priority-order")
		opts.Report, _ = flags.GetBool("report")
		if fields, _ := flags.GetString("fields"); fields != "" {
			opts.Fields = strings.Split(fields, ",")
		}

		if saveName, _ := flags.GetString("save-preset"); saveName != "" {
			store, err := presetStore()
			if err != nil {
				return fail(err)
			}
			if err := savePreset(cmd.OutOrStdout(), flags, store, saveName); err != nil {
				return fail(err)
			}
		}

		if err := runIssueSearch(cmd.Context(), newSearchEnv(tracker), opts, cmd.OutOrStdout()); err != nil {
			return fail(err)
		}
		return nil
	},
}

func init() {
	f := issueSearchCmd.Flags()
	f.Int("limit", query.DefaultLimit, "maximum number of issues")
	f.String("sort", query.DefaultSort, `sort order, "field:asc" or "field:desc"`)
	f.StringP("project_id", "p", "", "project the issues must belong to")
	f.String("status", query.DefaultStatus, "status name, id or comma-separated list")
	f.String("assigned", "", `assignee: name, id or one of "me", "not me", "anyone", "none", "all"`)
	f.String("sprint", "", "sprint (fixed version) name or id")
	f.StringArray("created", nil, "created date, optional <=/>= prefix; repeat for a range")
	f.StringArray("updated", nil, "updated date, optional <=/>= prefix; repeat for a range")
	f.Bool("not-estimated", false, "keep only issues without an estimate")
	f.String("subject", "", "keep only issues whose subject contains this text")
	f.String("tracker", "", "tracker name or id")
	f.String("category", "", "category name or id (requires a project)")
	f.String("priority-order", "", `pull one priority first, "operator|priority name"`)
	f.String("fields", "", "comma-separated subset of the configured columns")
	f.Bool("report", false, "append the summary report")
	f.String("preset", "", "replay a saved search preset")
	f.String("save-preset", "", "save this search under the given preset name")
}

func runIssueSearch(ctx context.Context, env *searchEnv, opts searchOptions, out io.Writer) error {
	params, err := query.NewBuilder(env.deps, env.defaultProject).Build(ctx, opts.RawOptions)
	if err != nil {
		return err
	}

	var order *query.PriorityOrder
	if opts.PriorityOrder != "" {
		order, err = query.ParsePriorityOrder(ctx, env.listings, opts.PriorityOrder)
		if err != nil {
			return err
		}
	}

	slog.Debug("issue search", "params", params.Encode())

	rs, err := env.issues.Query(ctx, "issue", params.Values())
	if err != nil {
		return err
	}
	if rs.Empty() {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	if opts.NotEstimated {
		reduce.DropEstimated(rs)
	}
	if opts.Subject != "" {
		reduce.FilterSubject(rs, opts.Subject)
	}
	if order != nil {
		reduce.ReorderPriority(rs, order.Name, reduce.OrderDescending)
	}
	if len(rs.Items) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	spec, err := format.ParseFieldSpec(env.issueFields)
	if err != nil {
		return err
	}
	narrowed, unknown := spec.Narrow(opts.Fields)
	if len(unknown) > 0 {
		fmt.Fprintf(out, "Incorrect filters inserted: %s\n", strings.Join(unknown, ", "))
	}
	if narrowed.Len() == 0 {
		narrowed = spec
	}
	if params.ProjectHidden() {
		narrowed = narrowed.Without("project")
	}

	format.WriteTable(out, narrowed, rs.Items, format.IssueWidth)
	format.WriteHint(out, rs)
	if opts.Report {
		fmt.Fprintln(out)
		format.WriteReport(out, rs.Items)
	}
	return nil
}

// applyPreset re-injects saved options into the flag set, so a preset
// behaves as if the user had typed those flags. Flags given explicitly
// on this invocation win over the preset.
func applyPreset(flags *pflag.FlagSet, store preset.Store, name string) error {
	p, err := store.Get(name)
	if err != nil {
		return err
	}
	for option, values := range p.Query {
		if flags.Changed(option) || flags.Lookup(option) == nil {
			continue
		}
		for _, value := range values {
			if err := flags.Set(option, value); err != nil {
				return fmt.Errorf("preset %q: %w", name, err)
			}
		}
	}
	return nil
}

// savePreset persists the explicitly given search flags under name. A
// name collision asks for overwrite, change or abort.
func savePreset(out io.Writer, flags *pflag.FlagSet, store preset.Store, name string) error {
	q := preset.Query{}
	flags.Visit(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			q[f.Name] = append([]string(nil), sv.GetSlice()...)
			return
		}
		q[f.Name] = []string{f.Value.String()}
	})
	q = q.Strip("preset", "save-preset")

	for {
		_, err := store.Get(name)
		if errors.Is(err, preset.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		answer, err := ask(fmt.Sprintf("Preset %q already exists: overwrite | change | abort?", name))
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "overwrite":
		case "change":
			name, err = ask("New preset name:")
			if err != nil {
				return err
			}
			if name == "" {
				return errors.New("empty preset name")
			}
			continue
		case "abort":
			return errors.New("preset save aborted")
		default:
			return fmt.Errorf("invalid choice %q", answer)
		}
		break
	}

	if err := store.Save(&preset.Preset{Name: name, Query: q}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Preset %q saved.\n", name)
	return nil
}
