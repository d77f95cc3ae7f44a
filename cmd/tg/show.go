package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/record"
)

type showOptions struct {
	MR          bool
	Description bool
	Info        bool
	Complete    bool
}

// issueShower is the one tracker capability show needs.
type issueShower interface {
	ShowIssue(ctx context.Context, id int, include string) (record.Record, error)
}

var issueShowCmd = &cobra.Command{
	Use:   "show <issue>",
	Short: "Show one tracker issue",
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
		var opts showOptions
		flags := cmd.Flags()
		opts.MR, _ = flags.GetBool("mr")
		opts.Description, _ = flags.GetBool("description")
		opts.Info, _ = flags.GetBool("info")
		opts.Complete, _ = flags.GetBool("complete")

		if err := runIssueShow(cmd.Context(), tracker, cfg.Tracker.URL, id, opts, cmd.OutOrStdout()); err != nil {
			return fail(err)
		}
		if open, _ := flags.GetBool("open"); open {
			if err := openBrowser(cfg.Tracker.URL + "/issues/" + args[0]); err != nil {
				return fail(err)
			}
		}
		return nil
	},
}

func init() {
	f := issueShowCmd.Flags()
	f.Bool("mr", false, "list merge request links found in the issue journals")
	f.Bool("description", false, "print the issue description")
	f.Bool("info", false, "print the issue field summary")
	f.Bool("complete", false, "print description and full journal history")
	f.Bool("open", false, "open the issue in the browser")
}

func runIssueShow(ctx context.Context, tracker issueShower, trackerURL string, id int, opts showOptions, out io.Writer) error {
	issue, err := tracker.ShowIssue(ctx, id, "journals")
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Subject: "+issue.Str("subject"))
	fmt.Fprintf(out, "URL: %s/issues/%d\n", trackerURL, id)

	if opts.MR {
		writeJournalLinks(out, issue)
	}
	if opts.Info || opts.Complete {
		writeIssueInfo(out, issue)
	}
	if opts.Description || opts.Complete {
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.TrimSpace(issue.Str("description")))
	}
	if opts.Complete {
		writeJournals(out, issue)
	}
	return nil
}

var urlPattern = regexp.MustCompile(`\bhttps?://[^\s()<>]+`)

// writeJournalLinks scans journal notes for merge request URLs. Link
// detection is by substring: any URL mentioning a merge request counts,
// whichever host wrote it.
func writeJournalLinks(out io.Writer, issue record.Record) {
	var links []string
	for _, journal := range issue.List("journals") {
		for _, link := range urlPattern.FindAllString(journal.Str("notes"), -1) {
			if strings.Contains(strings.ToLower(link), "merge_request") {
				links = append(links, link)
			}
		}
	}
	if len(links) == 0 {
		return
	}
	fmt.Fprintln(out, "MR:")
	for _, link := range links {
		fmt.Fprintln(out, "  "+link)
	}
}

func writeIssueInfo(out io.Writer, issue record.Record) {
	rows := []struct{ label, key string }{
		{"Project", "project"},
		{"Tracker", "tracker"},
		{"Status", "status"},
		{"Priority", "priority"},
		{"Assignee", "assigned_to"},
		{"Sprint", "fixed_version"},
	}
	for _, row := range rows {
		if name, ok := issue.Name(row.key); ok {
			fmt.Fprintf(out, "%s: %s\n", row.label, name)
		}
	}
	if hours, ok := issue.Float("estimated_hours"); ok {
		fmt.Fprintf(out, "Estimated hours: %s\n", strconv.FormatFloat(hours, 'f', -1, 64))
	}
}

func writeJournals(out io.Writer, issue record.Record) {
	for _, journal := range issue.List("journals") {
		notes := strings.TrimSpace(journal.Str("notes"))
		if notes == "" {
			continue
		}
		author, _ := journal.Name("user")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "--- %s (%s)\n", author, journal.Str("created_on"))
		fmt.Fprintln(out, notes)
	}
}

func openBrowser(url string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return exec.Command(opener, url).Start()
}
