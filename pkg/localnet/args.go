// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package localnet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/parachain-launch/pkg/models"
)

const relayArgsSeparator = "--"

func relayArgs(chain string, n models.RelayNode) []string {
	args := []string{
		"--chain=" + chain,
		"--tmp",
		"--name=" + n.Name,
		"--" + strings.ToLower(n.Name),
		"--port=" + strconv.Itoa(n.Port),
		"--ws-port=" + strconv.Itoa(n.WSPort),
		"--rpc-cors=all",
		"--unsafe-ws-external",
	}
	return append(args, n.Flags...)
}

// parachainArgs builds a collator command line. Node flags before "--" go to
// the collator, flags after it go to the embedded relay chain node.
func parachainArgs(p models.Parachain, n models.ParachainNode, relayChain string) []string {
	args := []string{
		"--collator",
		"--tmp",
		fmt.Sprintf("--parachain-id=%d", p.ID),
		"--chain=" + p.Chain,
		"--port=" + strconv.Itoa(n.Port),
		"--ws-port=" + strconv.Itoa(n.WSPort),
	}
	if n.RPCPort != 0 && !hasFlag(n.Flags, "--rpc-port") {
		args = append(args, "--rpc-port="+strconv.Itoa(n.RPCPort))
	}

	collatorFlags, relayFlags := splitFlags(n.Flags)
	args = append(args, collatorFlags...)
	args = append(args, relayArgsSeparator, "--chain="+relayChain)
	return append(args, relayFlags...)
}

func splitFlags(flags []string) ([]string, []string) {
	for i, f := range flags {
		if f == relayArgsSeparator {
			return flags[:i], flags[i+1:]
		}
	}
	return flags, nil
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if f == relayArgsSeparator {
			return false
		}
		if f == name || strings.HasPrefix(f, name+"=") {
			return true
		}
	}
	return false
}
