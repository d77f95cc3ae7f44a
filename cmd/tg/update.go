package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stokewood/triage/internal/client"
	"github.com/stokewood/triage/internal/record"
)

// issueUpdater is the tracker capability set of the update command.
type issueUpdater interface {
	client.Lister
	ShowIssue(ctx context.Context, id int, include string) (record.Record, error)
	UpdateIssue(ctx context.Context, id int, fields map[string]any) error
}

// updateFieldFlags maps each plain update flag to its upstream field.
var updateFieldFlags = []struct{ flag, field string }{
	{"project", "project_id"},
	{"tracker", "tracker_id"},
	{"status", "status_id"},
	{"priority", "priority_id"},
	{"category", "category_id"},
	{"subject", "subject"},
	{"description", "description"},
	{"target-version", "fixed_version_id"},
	{"assignee", "assigned_to_id"},
	{"notes", "notes"},
}

var issueUpdateCmd = &cobra.Command{
	Use:   "update <issue>",
	Short: "Update fields of a tracker issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := trackerClient()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fail(fmt.Errorf("invalid issue id %q", args[0]))
		}
		customFields, _ := cmd.Flags().GetStringArray("custom-field")
		if err := runIssueUpdate(cmd.Context(), tracker, id, cmd.Flags(), customFields, cmd.OutOrStdout()); err != nil {
			return fail(err)
		}
		if dump, _ := cmd.Flags().GetBool("dump-issue"); dump {
			opts := showOptions{Complete: true}
			if err := runIssueShow(cmd.Context(), tracker, cfg.Tracker.URL, id, opts, cmd.OutOrStdout()); err != nil {
				return fail(err)
			}
		}
		return nil
	},
}

func init() {
	f := issueUpdateCmd.Flags()
	f.StringP("project", "p", "", "move the issue to this project id")
	f.String("tracker", "", "tracker id")
	f.String("status", "", "status id")
	f.String("priority", "", "priority id")
	f.String("category", "", "category id")
	f.String("subject", "", "replace the subject")
	f.String("description", "", "replace the description")
	f.String("target-version", "", "target version id")
	f.String("assignee", "", "assignee user id")
	f.String("notes", "", "append a journal note")
	f.StringArray("custom-field", nil, `custom field as "name:value" or "id:value", repeatable`)
	f.Bool("dump-issue", false, "print the updated issue afterwards")
}

func runIssueUpdate(ctx context.Context, tracker issueUpdater, id int, flags *pflag.FlagSet, customFields []string, out io.Writer) error {
	fields := map[string]any{}
	for _, m := range updateFieldFlags {
		if flags.Changed(m.flag) {
			value, _ := flags.GetString(m.flag)
			fields[m.field] = value
		}
	}

	if len(customFields) > 0 {
		resolved, err := resolveCustomFields(ctx, tracker, customFields)
		if err != nil {
			return err
		}
		if len(resolved) > 0 {
			fields["custom_fields"] = resolved
		}
	}

	if len(fields) == 0 {
		return fmt.Errorf("nothing to update, give at least one field flag")
	}
	if err := tracker.UpdateIssue(ctx, id, fields); err != nil {
		return err
	}
	fmt.Fprintf(out, "Issue %d updated.\n", id)
	return nil
}

// resolveCustomFields turns "name:value" and "id:value" arguments into
// the upstream custom_fields payload. A numeric key names a field by id
// and is silently dropped when unknown; a textual key must match a
// defined field name.
func resolveCustomFields(ctx context.Context, defs client.Lister, args []string) ([]map[string]any, error) {
	listing, err := defs.Listing(ctx, "custom_field")
	if err != nil {
		return nil, fmt.Errorf("fetch custom fields: %w", err)
	}

	var out []map[string]any
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid custom field %q, expected \"name:value\" or \"id:value\"", arg)
		}
		key = strings.TrimSpace(key)

		if fieldID, err := strconv.Atoi(key); err == nil {
			name, found := "", false
			for _, def := range listing {
				if def.ID == fieldID {
					name, found = def.Name, true
					break
				}
			}
			if !found {
				continue
			}
			out = append(out, map[string]any{"id": fieldID, "name": name, "value": value})
			continue
		}

		fieldID, found := 0, false
		for _, def := range listing {
			if strings.EqualFold(def.Name, key) {
				fieldID, found = def.ID, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown custom field %q", key)
		}
		out = append(out, map[string]any{"id": fieldID, "name": key, "value": value})
	}
	return out, nil
}
