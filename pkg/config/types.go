// Package config provides configuration loading and validation for texdiag.
package config

import (
	"regexp"
	"time"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// RootFile is the top-level .tex file of the project. Relative paths in
	// build logs resolve against its directory.
	RootFile string `yaml:"root_file,omitempty" toml:"root_file"`

	// ProjectRoot resolves relative paths in ChkTeX output.
	ProjectRoot string `yaml:"project_root,omitempty" toml:"project_root"`

	Message  MessageConfig   `yaml:"message" toml:"message"`
	Linter   LinterConfig    `yaml:"linter" toml:"linter"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks"`
}

// MessageConfig controls which build-log messages are reported.
type MessageConfig struct {
	// Exclude lists regular expressions; matching log lines are ignored.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude"`

	// ShowBadBoxes reports over/underfull box notices.
	ShowBadBoxes bool `yaml:"badbox" toml:"badbox"`

	// compiledExclude is populated during validation.
	compiledExclude []*regexp.Regexp
}

// CompiledExclude returns the compiled exclude patterns.
func (m *MessageConfig) CompiledExclude() []*regexp.Regexp {
	return m.compiledExclude
}

// LinterConfig controls ChkTeX reporting.
type LinterConfig struct {
	// Extensions limits lint findings to files with these extensions.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when errors are reported.
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerOnIssues fires when anything is reported (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty" toml:"name"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" toml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty" toml:"token"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}
