// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package topology

import (
	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/models"
)

const parachainLogFlag = "--log=info,rpc=trace,evm=trace,ethereum=trace"

// newTemplate returns the fixed local shape: two relay validators and two
// collators. Binaries, chains and the parachain id are filled in by Build.
func newTemplate() *models.LaunchConfig {
	return &models.LaunchConfig{
		RelayChain: models.RelayChain{
			Nodes: []models.RelayNode{
				{Name: "alice", WSPort: 39944, Port: 39444},
				{Name: "bob", WSPort: 39955, Port: 39555},
			},
			GenesisOverrides: map[string]interface{}{
				"parachainsConfiguration": map[string]interface{}{
					"config": map[string]interface{}{
						"validation_upgrade_frequency": 1,
						"validation_upgrade_delay":     1,
					},
				},
			},
		},
		Parachains: []models.Parachain{
			{
				Balance: constants.DefaultParachainBalance,
				Nodes: []models.ParachainNode{
					{
						Name:    "alice",
						RPCPort: 36846,
						WSPort:  36946,
						Port:    36336,
						Flags: []string{
							parachainLogFlag,
							"--rpc-port=36846",
							"--unsafe-rpc-external",
							"--alice",
							"--rpc-cors=all",
							"--",
							"--execution=wasm",
						},
					},
					{
						Name:    "charlie",
						RPCPort: 36847,
						WSPort:  36947,
						Port:    36337,
						Flags: []string{
							parachainLogFlag,
							"--rpc-port=36847",
							"--charlie",
							"--unsafe-rpc-external",
							"--rpc-cors=all",
							"--",
							"--execution=wasm",
						},
					},
				},
			},
		},
		SimpleParachains: []models.Parachain{},
		HRMPChannels:     []models.HRMPChannel{},
		Types: map[string]string{
			"Address":      "MultiAddress",
			"LookupSource": "MultiAddress",
			"RoundIndex":   "u32",
		},
		Finalization: true,
	}
}
