// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package profilescmd

import (
	"bytes"
	"testing"

	"github.com/luxfi/parachain-launch/pkg/profiles"
	"github.com/stretchr/testify/require"
)

func TestPrintProfiles(t *testing.T) {
	require := require.New(t)
	var out bytes.Buffer

	require.NoError(printProfiles(&out, profiles.Default()))
	s := out.String()
	for _, r := range profiles.DefaultRelays() {
		require.Contains(s, r.Name)
	}
	for _, p := range profiles.DefaultParachains() {
		require.Contains(s, p.Name)
		require.Contains(s, p.Descriptor.RuntimeID)
	}
	require.Contains(s, "docker")
	require.Contains(s, "local")
	require.Contains(s, "1_000_000_000_000_000_000_000")
}

func TestSourceKind(t *testing.T) {
	require.Equal(t, "local", sourceKind(profiles.NetworkDescriptor{LocalBinaryPath: "polkadot"}))
	require.Equal(t, "docker", sourceKind(profiles.NetworkDescriptor{ContainerImage: "parity/polkadot"}))
}
