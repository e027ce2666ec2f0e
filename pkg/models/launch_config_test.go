// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaunchConfigJSONShape(t *testing.T) {
	require := require.New(t)
	cfg := LaunchConfig{
		RelayChain: RelayChain{
			Bin:   "build/kusama-v9030/polkadot",
			Chain: "kusama-local",
			Nodes: []RelayNode{{Name: "alice", WSPort: 39944, Port: 39444}},
			GenesisOverrides: map[string]interface{}{
				"parachainsConfiguration": map[string]interface{}{},
			},
		},
		Parachains:       []Parachain{{Bin: "moonbeam", ID: 1000, Nodes: []ParachainNode{{Name: "alice", RPCPort: 36846}}}},
		SimpleParachains: []Parachain{},
		HRMPChannels:     []HRMPChannel{},
		Types:            map[string]string{"RoundIndex": "u32"},
		Finalization:     true,
	}

	raw, err := json.Marshal(cfg)
	require.NoError(err)
	var decoded map[string]interface{}
	require.NoError(json.Unmarshal(raw, &decoded))

	require.Contains(decoded, "relaychain")
	require.Contains(decoded["relaychain"], "runtime_genesis_config")
	require.Equal([]interface{}{}, decoded["hrmpChannels"])
	require.Equal([]interface{}{}, decoded["simpleParachains"])
	require.Equal(true, decoded["finalization"])

	para := decoded["parachains"].([]interface{})[0].(map[string]interface{})
	require.Equal(float64(1000), para["id"])
}

func TestNodeCount(t *testing.T) {
	cfg := LaunchConfig{
		RelayChain: RelayChain{Nodes: make([]RelayNode, 2)},
		Parachains: []Parachain{{Nodes: make([]ParachainNode, 2)}, {Nodes: make([]ParachainNode, 1)}},
	}
	relay, para := cfg.NodeCount()
	require.Equal(t, 2, relay)
	require.Equal(t, 3, para)
}
