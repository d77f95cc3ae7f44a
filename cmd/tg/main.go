package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stokewood/triage/internal/cache"
	"github.com/stokewood/triage/internal/client"
	"github.com/stokewood/triage/internal/config"
	"github.com/stokewood/triage/internal/preset"
	"github.com/stokewood/triage/internal/state"
	"github.com/stokewood/triage/internal/ui"
)

var (
	verbose bool

	cfg     *config.Config
	stateDB *sql.DB
)

var rootCmd = &cobra.Command{
	Use:          "tg",
	Short:        "Issue tracker, merge request and code host triage from the terminal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stateDB != nil {
			stateDB.Close()
		}
	},
}

func trackerClient() (*client.Tracker, error) {
	if err := cfg.Validate(config.NeedTracker); err != nil {
		return nil, err
	}
	return client.NewTracker(cfg.Tracker.URL, cfg.Tracker.APIKey), nil
}

func mrHostClient() (*client.MRHost, error) {
	if err := cfg.Validate(config.NeedMRHost); err != nil {
		return nil, err
	}
	return client.NewMRHost(cfg.MRHost.URL, cfg.MRHost.Token), nil
}

func codeHostClient() (*client.CodeHost, error) {
	if err := cfg.Validate(config.NeedCodeHost); err != nil {
		return nil, err
	}
	return client.NewCodeHost(cfg.CodeHost.URL, cfg.CodeHost.Token), nil
}

// openState opens the local state database on first use and keeps it
// for the rest of the invocation.
func openState() (*sql.DB, error) {
	if stateDB != nil {
		return stateDB, nil
	}
	db, err := state.Open(cfg.StateFile)
	if err != nil {
		return nil, err
	}
	stateDB = db
	return db, nil
}

func presetStore() (preset.Store, error) {
	db, err := openState()
	if err != nil {
		return nil, err
	}
	return preset.NewSQLStore(db), nil
}

func lookupCache() (cache.Cache, error) {
	db, err := openState()
	if err != nil {
		return nil, err
	}
	return cache.NewSQL(db), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(mrCmd)
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(presetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
