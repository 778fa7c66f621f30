package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/texdiag/pkg/parser"
)

// Load reads and validates a configuration file. Files ending in .toml are
// decoded as TOML, everything else as YAML. Relative root_file and
// project_root values resolve against the config file's directory.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(path))

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) resolvePaths(dir string) {
	if c.RootFile != "" && !filepath.IsAbs(c.RootFile) {
		c.RootFile = filepath.Join(dir, c.RootFile)
	}
	if c.ProjectRoot != "" && !filepath.IsAbs(c.ProjectRoot) {
		c.ProjectRoot = filepath.Join(dir, c.ProjectRoot)
	}
}

// Validate checks a configuration for errors and compiles regex patterns.
func Validate(cfg *Config) error {
	if err := validateMessage(&cfg.Message); err != nil {
		return fmt.Errorf("message: %w", err)
	}

	for i, ext := range cfg.Linter.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("linter.extensions[%d]: %q must start with a dot", i, ext)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateMessage(m *MessageConfig) error {
	compiled := make([]*regexp.Regexp, 0, len(m.Exclude))
	for i, pattern := range m.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("exclude[%d]: invalid pattern: %w", i, err)
		}
		compiled = append(compiled, re)
	}
	m.compiledExclude = compiled
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnErrors, WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_errors, on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}
	return s
}

// ParserOptions returns the build-log parser settings. Call Validate first so
// the exclude patterns are compiled.
func (c *Config) ParserOptions(logger *slog.Logger) parser.Options {
	return parser.Options{
		DefaultRootFile: c.RootFile,
		Exclude:         c.Message.CompiledExclude(),
		ShowBadBoxes:    c.Message.ShowBadBoxes,
		Logger:          logger,
	}
}

// LintOptions returns the ChkTeX parser settings. Without a project root the
// root file's directory is used.
func (c *Config) LintOptions(singleFile string, logger *slog.Logger) parser.LintOptions {
	root := c.ProjectRoot
	if root == "" && c.RootFile != "" {
		root = filepath.Dir(c.RootFile)
	}
	return parser.LintOptions{
		SingleFile:  singleFile,
		ProjectRoot: root,
		Logger:      logger,
	}
}
