package format

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/araddon/dateparse"
	"github.com/mattn/go-runewidth"

	"github.com/stokewood/triage/internal/record"
)

// Column truncation widths per record family.
const (
	IssueWidth = 50
	MergeWidth = 72
)

// Date columns carry their own layouts; created keeps the day, updated
// keeps the time of day too.
var dateLayouts = map[string]string{
	"created_on": "02-01-2006",
	"updated_on": "02-01-2006 15:04:05",
	"created_at": "02-01-2006",
	"updated_at": "02-01-2006 15:04:05",
}

// WriteTable renders items under spec, one row per record. Missing
// fields render as empty cells, never an error.
func WriteTable(w io.Writer, spec FieldSpec, items []record.Record, width int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fields := spec.Fields()
	for i, f := range fields {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, f.Label)
	}
	fmt.Fprintln(tw)

	for _, item := range items {
		for i, f := range fields {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, renderField(item, f.Path, width))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// renderField applies the per-field rules in priority order: date
// layout, nested-object name, raw scalar.
func renderField(item record.Record, path string, width int) string {
	v, ok := item.Field(path)
	if !ok || v == nil {
		return ""
	}

	if layout, dated := dateLayouts[path]; dated {
		if raw, isString := v.(string); isString {
			if t, err := dateparse.ParseAny(raw); err == nil {
				return t.Format(layout)
			}
		}
	}

	switch t := v.(type) {
	case map[string]any:
		nested := record.Record(t)
		if nested.Has("name") {
			return runewidth.Truncate(nested.Str("name"), width, "")
		}
		return ""
	case string:
		return runewidth.Truncate(t, width, "")
	case float64:
		return formatFloat(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return runewidth.Truncate(fmt.Sprint(t), width, "")
	}
}

// WriteHint prints the showing-N-of-M notice when the page limit hid
// part of the result.
func WriteHint(w io.Writer, rs *record.ResultSet) {
	if !rs.HasTotal || rs.Limit <= 0 || rs.Limit >= rs.TotalCount {
		return
	}
	fmt.Fprintf(w, "\nShowing \"%d\" of \"%d\" issues (you can adjust the limit using --limit argument)\n\n",
		rs.Limit, rs.TotalCount)
}

// WriteReport renders the one-row summary of an already reduced result
// set in a single pass: count, estimated hours, eight-hour days,
// distinct assignees.
func WriteReport(w io.Writer, items []record.Record) {
	var hours float64
	developers := make(map[string]struct{})
	for _, item := range items {
		if h, ok := item.Float("estimated_hours"); ok {
			hours += h
		}
		if name, ok := item.Name("assigned_to"); ok {
			developers[name] = struct{}{}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Issues\tEstimated hours\tEstimated days\tNumber of developers")
	fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n",
		len(items), formatFloat(hours), int(math.Ceil(hours/8)), len(developers))
	tw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
