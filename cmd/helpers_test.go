package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags returns every flag in the tree to its default so values do not
// leak between Execute calls on the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// testStore points HOME at a temp dir and returns a SQLite store path in it
func testStore(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return filepath.Join(home, "data", "session.db")
}

func executeCommand(t *testing.T, store string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	full := append([]string{"--store", store}, args...)
	rootCmd.SetArgs(full)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(&bytes.Buffer{})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func mustExecute(t *testing.T, store string, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, store, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}
