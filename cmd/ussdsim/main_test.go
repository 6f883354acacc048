package main

import (
	"bytes"
	"testing"

	"github.com/aretw0/ussdsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ussdsim version "+ussdsim.Version+"\n", out)
}

func TestCatalogLsCommand(t *testing.T) {
	out, err := execute(t, "catalog", "ls", "--search", "data")
	require.NoError(t, err)
	assert.Contains(t, out, "*131#")
	assert.NotContains(t, out, "*123#")
}

func TestDevicesLsCommand(t *testing.T) {
	out, err := execute(t, "devices", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "iPhone 14")
	assert.Contains(t, out, "eSIM 1")
}

func TestSessionCommand_RequiresRedis(t *testing.T) {
	t.Setenv("USSDSIM_REDIS_ADDR", "")
	_, err := execute(t, "session", "ls")
	assert.ErrorContains(t, err, "no shared session store")
}

func TestBadLogLevelFlag(t *testing.T) {
	_, err := execute(t, "devices", "ls", "--log-level", "chatty")
	assert.Error(t, err)
}
