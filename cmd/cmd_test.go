package cmd

import (
	"os"
	"strings"
	"testing"
)

func TestExecuteUnknownCommand(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"tribubot", "bogus"}
	err := Execute()
	if err == nil {
		t.Fatal("Execute with unknown command should fail")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error %q should name the unknown command", err)
	}
}

func TestExecuteHelp(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	for _, args := range [][]string{
		{"tribubot"},
		{"tribubot", "help"},
		{"tribubot", "--help"},
	} {
		os.Args = args
		if err := Execute(); err != nil {
			t.Errorf("Execute(%v): %v", args[1:], err)
		}
	}
}

func TestExecuteVersion(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"tribubot", "--version"}
	if err := Execute(); err != nil {
		t.Fatalf("Execute(--version): %v", err)
	}
}
