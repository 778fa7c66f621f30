package cli

import (
	"testing"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"build", "lint", "check", "detect", "watch", "diagnose", "validate", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewRootCommand_PersistentFlags(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"config", "debug", "log-json"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if f := root.PersistentFlags().ShorthandLookup("c"); f == nil || f.Name != "config" {
		t.Error("-c should be the shorthand for --config")
	}
}
