// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package models

// LaunchConfig is the full description of a local relay + parachain network.
// Field names follow the polkadot-launch config format.
type LaunchConfig struct {
	RelayChain       RelayChain        `json:"relaychain" yaml:"relaychain"`
	Parachains       []Parachain       `json:"parachains" yaml:"parachains"`
	SimpleParachains []Parachain       `json:"simpleParachains" yaml:"simpleParachains"`
	HRMPChannels     []HRMPChannel     `json:"hrmpChannels" yaml:"hrmpChannels"`
	Types            map[string]string `json:"types" yaml:"types"`
	Finalization     bool              `json:"finalization" yaml:"finalization"`
}

type RelayChain struct {
	Bin   string      `json:"bin" yaml:"bin"`
	Chain string      `json:"chain" yaml:"chain"`
	Nodes []RelayNode `json:"nodes" yaml:"nodes"`
	// GenesisOverrides is merged into the runtime genesis config of the chain spec
	GenesisOverrides map[string]interface{} `json:"runtime_genesis_config,omitempty" yaml:"runtime_genesis_config,omitempty"`
}

type RelayNode struct {
	Name   string   `json:"name" yaml:"name"`
	WSPort int      `json:"wsPort" yaml:"wsPort"`
	Port   int      `json:"port" yaml:"port"`
	Flags  []string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

type Parachain struct {
	Bin     string          `json:"bin" yaml:"bin"`
	ID      int             `json:"id" yaml:"id"`
	Balance string          `json:"balance" yaml:"balance"`
	Chain   string          `json:"chain" yaml:"chain"`
	Nodes   []ParachainNode `json:"nodes" yaml:"nodes"`
}

type ParachainNode struct {
	Name    string   `json:"name" yaml:"name"`
	RPCPort int      `json:"rpcPort,omitempty" yaml:"rpcPort,omitempty"`
	WSPort  int      `json:"wsPort" yaml:"wsPort"`
	Port    int      `json:"port" yaml:"port"`
	Flags   []string `json:"flags" yaml:"flags"`
}

// HRMPChannel opens a horizontal message channel between two parachains
type HRMPChannel struct {
	Sender         int `json:"sender" yaml:"sender"`
	Recipient      int `json:"recipient" yaml:"recipient"`
	MaxCapacity    int `json:"maxCapacity" yaml:"maxCapacity"`
	MaxMessageSize int `json:"maxMessageSize" yaml:"maxMessageSize"`
}

// NodeCount returns the number of relay and parachain nodes
func (c *LaunchConfig) NodeCount() (relay int, parachain int) {
	relay = len(c.RelayChain.Nodes)
	for _, p := range c.Parachains {
		parachain += len(p.Nodes)
	}
	return relay, parachain
}
