package config

import (
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// Config is the complete tidyup configuration
type Config struct {
	Engine  EngineConfig  `koanf:"engine" toml:"engine"`
	Trash   TrashConfig   `koanf:"trash" toml:"trash"`
	Journal JournalConfig `koanf:"journal" toml:"journal"`
	Rules   []RuleConfig  `koanf:"rules" toml:"rules,omitempty"`

	// Source is the user file that was loaded, empty when only defaults apply
	Source string `koanf:"-" toml:"-"`
}

// EngineConfig controls a run
type EngineConfig struct {
	// Root is where relative patterns and paths are resolved
	Root     string `koanf:"root" toml:"root"`
	DryRun   bool   `koanf:"dry_run" toml:"dry_run"`
	Conflict string `koanf:"conflict" toml:"conflict"`
	// Sniff enables magic-byte content detection for unknown extensions
	Sniff bool `koanf:"sniff" toml:"sniff"`
}

type TrashConfig struct {
	Dir string `koanf:"dir" toml:"dir"`
}

type JournalConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Path    string `koanf:"path" toml:"path"`
}

// RuleConfig is a declarative rule: a name and the steps it performs in order
type RuleConfig struct {
	Name     string       `koanf:"name" toml:"name"`
	Disabled bool         `koanf:"disabled" toml:"disabled,omitempty"`
	Steps    []StepConfig `koanf:"steps" toml:"steps"`
}

// StepConfig is one action of a rule.
//
//	mkdir: Path
//	trash: Patterns (or Path), filtered by When
//	move:  Patterns, filtered by When, into Destination
type StepConfig struct {
	Action      string     `koanf:"action" toml:"action"`
	Patterns    []string   `koanf:"patterns" toml:"patterns,omitempty"`
	Path        string     `koanf:"path" toml:"path,omitempty"`
	Destination string     `koanf:"destination" toml:"destination,omitempty"`
	Conflict    string     `koanf:"conflict" toml:"conflict,omitempty"`
	When        WhenConfig `koanf:"when" toml:"when,omitempty"`
}

// WhenConfig filters matched paths. Every condition that is set must hold.
type WhenConfig struct {
	AccessedOlderThan string   `koanf:"accessed_older_than" toml:"accessed_older_than,omitempty"`
	ModifiedOlderThan string   `koanf:"modified_older_than" toml:"modified_older_than,omitempty"`
	CreatedOlderThan  string   `koanf:"created_older_than" toml:"created_older_than,omitempty"`
	ContentTypes      []string `koanf:"content_types" toml:"content_types,omitempty"`
	DownloadedFrom    []string `koanf:"downloaded_from" toml:"downloaded_from,omitempty"`
	LargerThan        string   `koanf:"larger_than" toml:"larger_than,omitempty"`
	SmallerThan       string   `koanf:"smaller_than" toml:"smaller_than,omitempty"`
	Kind              string   `koanf:"kind" toml:"kind,omitempty"`
	Empty             *bool    `koanf:"empty" toml:"empty,omitempty"`
}

// IsZero reports whether no condition is set
func (w WhenConfig) IsZero() bool {
	return w.AccessedOlderThan == "" && w.ModifiedOlderThan == "" && w.CreatedOlderThan == "" &&
		len(w.ContentTypes) == 0 && len(w.DownloadedFrom) == 0 &&
		w.LargerThan == "" && w.SmallerThan == "" && w.Kind == "" && w.Empty == nil
}

// EnabledRules returns the rules that are not disabled, in order
func (c *Config) EnabledRules() []RuleConfig {
	var out []RuleConfig
	for _, r := range c.Rules {
		if !r.Disabled {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks the non-rule sections. Rules are validated when they are
// compiled.
func (c *Config) Validate() error {
	if c.Engine.Root == "" {
		return errors.New(errors.ErrConfigValid, "engine.root must not be empty")
	}
	if _, ok := types.ParseConflictPolicy(c.Engine.Conflict); !ok {
		return errors.Newf(errors.ErrConfigValid, "engine.conflict: unknown policy %q", c.Engine.Conflict).
			WithDetail("allowed", []types.ConflictPolicy{types.ConflictOverwrite, types.ConflictSkip, types.ConflictRename})
	}
	if c.Trash.Dir == "" {
		return errors.New(errors.ErrConfigValid, "trash.dir must not be empty")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New(errors.ErrConfigValid, "journal.path must be set when the journal is enabled")
	}
	return nil
}
