// Package config loads the layered YAML configuration: built-in defaults,
// then $HOME/.tg.yml, then ./.tg.yml, then environment overrides. Later
// layers win per key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-directory and per-user configuration file name.
const FileName = ".tg.yml"

type Config struct {
	Tracker struct {
		URL       string `yaml:"url"`        // TG_TRACKER_URL
		APIKey    string `yaml:"api_key"`    // TG_TRACKER_API_KEY
		ProjectID string `yaml:"project_id"` // default project filter
	} `yaml:"tracker"`

	MRHost struct {
		URL       string `yaml:"url"`   // TG_MRHOST_URL
		Token     string `yaml:"token"` // TG_MRHOST_TOKEN
		ProjectID string `yaml:"project_id"`
	} `yaml:"mrhost"`

	CodeHost struct {
		URL   string `yaml:"url"`
		Token string `yaml:"token"` // TG_CODEHOST_TOKEN
		Owner string `yaml:"owner"`
		Repo  string `yaml:"repo"`
	} `yaml:"codehost"`

	Git struct {
		// Templates support %(story), %(issue_id) and %(story_name).
		BranchPattern string `yaml:"branch_pattern"`
		CommitPattern string `yaml:"commit_pattern"`
	} `yaml:"git"`

	Output struct {
		// Comma-delimited "field|Label" pairs, in display order.
		IssueFields string `yaml:"issue_fields"`
	} `yaml:"output"`

	// StateFile holds presets and cached lookups.
	StateFile string `yaml:"state_file"`
}

// ConfigError marks a missing or invalid required configuration value.
// It is the one error kind that aborts the process before command logic.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration: %s is required (set it in %s or via the environment)", e.Key, FileName)
}

// Need names a service whose configuration a command depends on.
type Need int

const (
	NeedTracker Need = iota
	NeedMRHost
	NeedCodeHost
)

// Load builds the effective configuration from all layers.
func Load() (*Config, error) {
	c := defaults()

	home, err := os.UserHomeDir()
	if err == nil {
		if err := mergeFile(c, filepath.Join(home, FileName)); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(c, FileName); err != nil {
		return nil, err
	}
	applyEnv(c)
	return c, nil
}

func defaults() *Config {
	c := &Config{}
	c.Git.BranchPattern = "%(story)_%(issue_id)_%(story_name)"
	c.Git.CommitPattern = "%(story)_%(issue_id):"
	c.Output.IssueFields = "id|ID,project|Project,created_on|Created,updated_on|Updated," +
		"tracker|Tracker,fixed_version|Version,author|Author,assigned_to|Assigned," +
		"status|Status,estimated_hours|Estimated,subject|Subject"
	c.StateFile = defaultStatePath()
	return c
}

func defaultStatePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tg", "state.db")
}

// mergeFile overlays one YAML file onto c. A missing file is fine; a
// malformed one is not.
func mergeFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *Config) {
	overlay(&c.Tracker.URL, "TG_TRACKER_URL")
	overlay(&c.Tracker.APIKey, "TG_TRACKER_API_KEY")
	overlay(&c.Tracker.ProjectID, "TG_TRACKER_PROJECT_ID")
	overlay(&c.MRHost.URL, "TG_MRHOST_URL")
	overlay(&c.MRHost.Token, "TG_MRHOST_TOKEN")
	overlay(&c.MRHost.ProjectID, "TG_MRHOST_PROJECT_ID")
	overlay(&c.CodeHost.Token, "TG_CODEHOST_TOKEN")
	overlay(&c.CodeHost.Owner, "TG_CODEHOST_OWNER")
	overlay(&c.CodeHost.Repo, "TG_CODEHOST_REPO")
}

func overlay(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks that every configuration value the command's needs
// imply is present. The first missing key is reported.
func (c *Config) Validate(needs ...Need) error {
	for _, need := range needs {
		switch need {
		case NeedTracker:
			if c.Tracker.URL == "" {
				return &ConfigError{Key: "tracker.url"}
			}
			if c.Tracker.APIKey == "" {
				return &ConfigError{Key: "tracker.api_key"}
			}
		case NeedMRHost:
			if c.MRHost.URL == "" {
				return &ConfigError{Key: "mrhost.url"}
			}
			if c.MRHost.Token == "" {
				return &ConfigError{Key: "mrhost.token"}
			}
		case NeedCodeHost:
			if c.CodeHost.Token == "" {
				return &ConfigError{Key: "codehost.token"}
			}
			if c.CodeHost.Owner == "" {
				return &ConfigError{Key: "codehost.owner"}
			}
			if c.CodeHost.Repo == "" {
				return &ConfigError{Key: "codehost.repo"}
			}
		}
	}
	return nil
}
