// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build !windows

package localnet

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/utils"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	sleepingNode = "#!/bin/sh\necho \"$@\" >> \"$0.args\"\nexec sleep 30\n"
	crashingNode = "#!/bin/sh\nexit 3\n"
	stubbornNode = "#!/bin/sh\ntrap '' INT\nexec sleep 30\n"

	// answers the chain spec subcommands, runs as a node otherwise
	specAwareNode = `#!/bin/sh
case "$1" in
build-spec)
  case "$*" in
  *--raw*) echo '{"name":"raw"}' ;;
  *) echo '{"genesis":{"runtime":{"paras":{"paras":[]},"balances":{"balances":[["alice",1000000000000000000000]]}}}}' ;;
  esac
  exit 0 ;;
export-genesis-state) echo 0xhead; exit 0 ;;
export-genesis-wasm) echo 0xwasm; exit 0 ;;
esac
echo "$@" >> "$0.args"
exec sleep 30
`
)

func TestMain(m *testing.M) {
	ux.NewUserLog(zap.NewNop(), io.Discard)
	os.Exit(m.Run())
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), constants.DefaultPerms755))
	return path
}

// openPort returns a port accepting connections for the duration of the test
func openPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", readyHost+":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

// closedPort returns a port nothing listens on
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", readyHost+":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func testConfig(t *testing.T, relayBin, parachainBin string) *models.LaunchConfig {
	return &models.LaunchConfig{
		RelayChain: models.RelayChain{
			Bin:   relayBin,
			Chain: "rococo-local",
			Nodes: []models.RelayNode{
				{Name: "alice", WSPort: openPort(t), Port: 39444},
				{Name: "bob", WSPort: openPort(t), Port: 39555},
			},
		},
		Parachains: []models.Parachain{{
			Bin:   parachainBin,
			ID:    1000,
			Chain: "moonriver-local",
			Nodes: []models.ParachainNode{
				{Name: "alice", RPCPort: 36846, WSPort: openPort(t), Port: 36336, Flags: []string{"--alice", "--", "--execution=wasm"}},
			},
		}},
	}
}

func requireGone(t *testing.T, pid int) {
	t.Helper()
	exists, err := process.PidExists(int32(pid)) //nolint:gosec // test pids
	require.NoError(t, err)
	require.False(t, exists, "pid %d still running", pid)
}

func readArgs(t *testing.T, bin string, lines int) []string {
	t.Helper()
	var got []string
	require.Eventually(t, func() bool {
		b, err := os.ReadFile(bin + ".args")
		if err != nil {
			return false
		}
		got = strings.Split(strings.TrimSpace(string(b)), "\n")
		return len(got) == lines
	}, 5*time.Second, 50*time.Millisecond)
	return got
}

func TestStartAndStopAll(t *testing.T) {
	binDir := t.TempDir()
	runDir := filepath.Join(t.TempDir(), constants.RunDir)
	relay := writeScript(t, binDir, "polkadot", sleepingNode)
	parachain := writeScript(t, binDir, "moonbeam", sleepingNode)

	l := NewProcessLauncher(runDir, zap.NewNop(), WithoutChainSpec(), WithReadyTimeout(10*time.Second))
	require.NoError(t, l.Start(context.Background(), binDir, testConfig(t, relay, parachain)))
	require.Equal(t, []string{"relay-alice", "relay-bob", "parachain-1000-alice"}, l.Nodes())

	require.FileExists(t, filepath.Join(runDir, constants.LaunchConfigFile))
	for _, name := range l.Nodes() {
		require.FileExists(t, filepath.Join(runDir, name+constants.NodeLogFileSuffix))
	}

	var rf runFile
	require.NoError(t, utils.ReadJSON(l.RunFile(), &rf))
	require.Equal(t, os.Getpid(), rf.Pid)
	require.Len(t, rf.Nodes, 3)

	relayLines := readArgs(t, relay, 2)
	require.Contains(t, relayLines[0], "--chain=rococo-local")
	require.Contains(t, relayLines[0], "--alice")
	parachainLines := readArgs(t, parachain, 1)
	require.Contains(t, parachainLines[0], "--parachain-id=1000")
	require.True(t, strings.HasSuffix(parachainLines[0], "-- --chain=rococo-local --execution=wasm"))

	require.NoError(t, l.StopAll())
	for _, n := range rf.Nodes {
		requireGone(t, n.Pid)
	}
	require.NoFileExists(t, l.RunFile())

	// second call is a no-op
	require.NoError(t, l.StopAll())
}

func TestStartFailsOnMissingBinary(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", sleepingNode)

	l := NewProcessLauncher(t.TempDir(), zap.NewNop(), WithoutChainSpec())
	err := l.Start(context.Background(), binDir, testConfig(t, relay, filepath.Join(binDir, "missing")))
	require.ErrorContains(t, err, "parachain-1000-alice")

	// relay nodes started before the failure are still stopped
	require.Equal(t, []string{"relay-alice", "relay-bob"}, l.Nodes())
	require.NoError(t, l.StopAll())
}

func TestStartFailsWhenNodeExits(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", crashingNode)
	parachain := writeScript(t, binDir, "moonbeam", sleepingNode)

	cfg := testConfig(t, relay, parachain)
	cfg.RelayChain.Nodes[1].WSPort = closedPort(t)

	l := NewProcessLauncher(t.TempDir(), zap.NewNop(), WithoutChainSpec(), WithReadyTimeout(10*time.Second))
	err := l.Start(context.Background(), binDir, cfg)
	require.ErrorContains(t, err, "relay-bob exited before becoming ready")
	require.NoError(t, l.StopAll())
}

func TestStartReadyTimeout(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", sleepingNode)
	parachain := writeScript(t, binDir, "moonbeam", sleepingNode)

	cfg := testConfig(t, relay, parachain)
	cfg.Parachains[0].Nodes[0].WSPort = closedPort(t)

	l := NewProcessLauncher(t.TempDir(), zap.NewNop(), WithoutChainSpec(), WithReadyTimeout(time.Second))
	err := l.Start(context.Background(), binDir, cfg)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorContains(t, err, "parachain-1000-alice not ready")
	require.NoError(t, l.StopAll())
}

func TestStartCancelled(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", sleepingNode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewProcessLauncher(t.TempDir(), zap.NewNop(), WithoutChainSpec())
	err := l.Start(ctx, binDir, testConfig(t, relay, relay))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, l.Nodes())
	require.NoError(t, l.StopAll())
}

func TestStopAllKillsStubbornNode(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", stubbornNode)
	parachain := writeScript(t, binDir, "moonbeam", sleepingNode)

	l := NewProcessLauncher(t.TempDir(), zap.NewNop(), WithoutChainSpec(), WithStopGrace(200*time.Millisecond))
	require.NoError(t, l.Start(context.Background(), binDir, testConfig(t, relay, parachain)))

	start := time.Now()
	require.NoError(t, l.StopAll())
	require.Less(t, time.Since(start), 10*time.Second)
	for _, n := range l.nodes {
		require.True(t, n.exited())
	}
}

func TestStopAllAfterStopRefusesSpawn(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", sleepingNode)

	l := NewProcessLauncher(t.TempDir(), zap.NewNop(), WithoutChainSpec())
	require.NoError(t, l.StopAll())
	err := l.Start(context.Background(), binDir, testConfig(t, relay, relay))
	require.ErrorContains(t, err, "already stopped")
	require.Empty(t, l.Nodes())
}

func TestStartBuildsChainSpec(t *testing.T) {
	binDir := t.TempDir()
	runDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", specAwareNode)
	parachain := writeScript(t, binDir, "moonbeam", specAwareNode)

	cfg := testConfig(t, relay, parachain)
	cfg.RelayChain.GenesisOverrides = map[string]interface{}{
		"parachainsConfiguration": map[string]interface{}{
			"config": map[string]interface{}{"validation_upgrade_delay": 1},
		},
	}

	l := NewProcessLauncher(runDir, zap.NewNop())
	require.NoError(t, l.Start(context.Background(), binDir, cfg))
	defer func() { require.NoError(t, l.StopAll()) }()

	spec, err := os.ReadFile(filepath.Join(runDir, constants.RelaySpecFile))
	require.NoError(t, err)
	require.Contains(t, string(spec), `"validation_upgrade_delay": 1`)
	require.Contains(t, string(spec), "1000000000000000000000")
	require.Contains(t, string(spec), `"0xhead"`)
	require.Contains(t, string(spec), `"0xwasm"`)

	rawPath := filepath.Join(runDir, constants.RelayRawSpecFile)
	require.FileExists(t, rawPath)
	for _, args := range readArgs(t, relay, 2) {
		require.Contains(t, args, "--chain="+rawPath)
	}
	require.Contains(t, readArgs(t, parachain, 1)[0], "-- --chain="+rawPath)
}

func TestStartChainSpecFailure(t *testing.T) {
	binDir := t.TempDir()
	relay := writeScript(t, binDir, "polkadot", crashingNode)

	l := NewProcessLauncher(t.TempDir(), zap.NewNop())
	err := l.Start(context.Background(), binDir, testConfig(t, relay, relay))
	require.ErrorContains(t, err, "failed building relay chain spec")
	require.Empty(t, l.Nodes())
}
