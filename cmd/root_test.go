package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFlagsRegistered(t *testing.T) {
	for _, name := range []string{"config", "server", "token", "log-level"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	for _, name := range []string{"prompt", "conversation", "wait-timeout"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
}

func TestConversationsSubcommands(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"conversations", "list"})
	require.NoError(t, err)
	assert.Equal(t, "list", cmd.Name())

	cmd, _, err = rootCmd.Find([]string{"conversations", "show"})
	require.NoError(t, err)
	assert.Equal(t, "show", cmd.Name())

	cmd, _, err = rootCmd.Find([]string{"conversations", "delete"})
	require.NoError(t, err)
	assert.Equal(t, "delete", cmd.Name())
}
