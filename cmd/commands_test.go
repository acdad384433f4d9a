package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	return dir
}

func TestRecomputeCommand(t *testing.T) {
	dir := writeConfig(t, "STORE_BACKEND=memory\n")

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"recompute", "--config", dir, "--tenant", "acme"})

	require.NoError(t, cmd.Execute())
	require.True(t, strings.HasPrefix(out.String(), "tenant acme: 0 accounts, 0 updated, 0 issues"), out.String())
}

func TestRecomputeCommandRequiresTenant(t *testing.T) {
	dir := writeConfig(t, "STORE_BACKEND=memory\n")

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"recompute", "--config", dir})

	require.Error(t, cmd.Execute())
}

func TestMigrateCommandRejectsMemoryStore(t *testing.T) {
	dir := writeConfig(t, "STORE_BACKEND=memory\n")

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"migrate", "--config", dir})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "postgres")
}
