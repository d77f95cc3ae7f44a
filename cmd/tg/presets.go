package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List or delete saved search presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return fail(err)
		}
		if name, _ := cmd.Flags().GetString("delete"); name != "" {
			// Deleting an absent preset is a no-op.
			if err := store.Delete(name); err != nil {
				return fail(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset %q deleted.\n", name)
			return nil
		}
		if err := listPresets(store, cmd.OutOrStdout()); err != nil {
			return fail(err)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().String("delete", "", "delete the preset with this name")
}

func listPresets(store preset.Store, out io.Writer) error {
	presets, err := store.List()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Fprintln(out, "No presets saved.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Preset\tQuery")
	for _, p := range presets {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Query.Render())
	}
	return tw.Flush()
}
