package cmd

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDiscoverSnapshotWithoutCache(t *testing.T) {
	flags := discoverCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"snapshot", "cache"} {
			flags.Lookup(name).Changed = false
		}
		snapshotFile, useCache = "", false
	})

	require.NoError(t, flags.Set("snapshot", "device.yaml"))
	assert.NoError(t, discoverCmd.ValidateFlagGroups())

	require.NoError(t, flags.Set("cache", "true"))
	assert.Error(t, discoverCmd.ValidateFlagGroups())
}
