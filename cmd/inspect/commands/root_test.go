package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "inspect" {
		t.Errorf("Use = %q", cmd.Use)
	}

	want := []string{"serve", "migrate", "token", "users", "seed", "insights"}
	have := map[string]bool{}
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}

	for _, flag := range []string{"config", "server", "token", "output"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag %q", flag)
		}
	}
}

func TestInsightsSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	insights, _, err := cmd.Find([]string{"insights"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	names := []string{}
	for _, sub := range insights.Commands() {
		names = append(names, sub.Name())
	}
	if got := strings.Join(names, ","); got != "candidates,list,show" {
		t.Fatalf("insights subcommands = %s", got)
	}
}

func TestSeedRequiresFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"seed"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "file") {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenRequiresUserID(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"token"})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "--user-id") {
		t.Fatalf("err = %v", err)
	}
}

func TestPrintValueUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := printValue(&buf, "xml", nil, nil, func() [][]string { return nil }); err == nil {
		t.Fatalf("expected error")
	}
}
