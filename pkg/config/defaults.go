package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout = 10 * time.Second
	DefaultShowBadBoxes   = true
)

// DefaultLintExtensions are the file types ChkTeX findings are reported for.
// Style and class files are left out on purpose.
var DefaultLintExtensions = []string{".tex", ".bbx", ".cbx", ".dtx"}

// Environment variable names.
const (
	EnvRootFile    = "TEXDIAG_ROOT_FILE"
	EnvProjectRoot = "TEXDIAG_PROJECT_ROOT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Message: MessageConfig{
			ShowBadBoxes: DefaultShowBadBoxes,
		},
		Linter: LinterConfig{
			Extensions: append([]string(nil), DefaultLintExtensions...),
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Relative values resolve against the working directory, not the config file.
func (c *Config) applyEnvironmentOverrides() {
	if root := os.Getenv(EnvRootFile); root != "" {
		c.RootFile = absFromWorkingDir(root)
	}
	if dir := os.Getenv(EnvProjectRoot); dir != "" {
		c.ProjectRoot = absFromWorkingDir(dir)
	}
}

func absFromWorkingDir(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// DefaultFileNames are looked up, in order, when no config file is given.
var DefaultFileNames = []string{"texdiag.yaml", "texdiag.yml", "texdiag.toml", ".texdiag.yaml"}

// Discover returns the first default config file present in dir, or "".
func Discover(dir string) string {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FromEnvironment returns the defaults with environment overrides applied.
func FromEnvironment() (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
