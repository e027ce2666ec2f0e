// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package localnet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/utils"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"go.uber.org/zap"
)

// Launcher starts every node of a launch config and stops them again
type Launcher interface {
	Start(ctx context.Context, baseDir string, cfg *models.LaunchConfig) error
	StopAll() error
}

type LauncherOption func(*ProcessLauncher)

func WithReadyTimeout(d time.Duration) LauncherOption {
	return func(l *ProcessLauncher) {
		l.readyTimeout = d
	}
}

func WithStopGrace(d time.Duration) LauncherOption {
	return func(l *ProcessLauncher) {
		l.stopGrace = d
	}
}

// WithoutChainSpec passes the relay chain name to the nodes as is,
// skipping the build-spec step and the genesis overrides
func WithoutChainSpec() LauncherOption {
	return func(l *ProcessLauncher) {
		l.skipChainSpec = true
	}
}

// ProcessLauncher runs every node as a child process of this one,
// with output redirected to a log file per node in the run dir
type ProcessLauncher struct {
	runDir        string
	log           *zap.Logger
	readyTimeout  time.Duration
	stopGrace     time.Duration
	skipChainSpec bool

	lock    sync.Mutex
	nodes   []*node
	stopped bool
}

func NewProcessLauncher(runDir string, log *zap.Logger, opts ...LauncherOption) *ProcessLauncher {
	l := &ProcessLauncher{
		runDir:       runDir,
		log:          log,
		readyTimeout: constants.DefaultReadyTimeout,
		stopGrace:    constants.DefaultStopGrace,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ProcessLauncher) RunFile() string {
	return filepath.Join(l.runDir, constants.NetworkRunFile)
}

// Start writes the config dump, spawns the relay nodes and then the parachain
// nodes, and waits until every node accepts connections on its ws port.
// Nodes spawned before a failure stay tracked so StopAll can reach them.
func (l *ProcessLauncher) Start(ctx context.Context, baseDir string, cfg *models.LaunchConfig) error {
	if err := os.MkdirAll(l.runDir, constants.DirPerms); err != nil {
		return err
	}
	if err := utils.WriteJSON(filepath.Join(l.runDir, constants.LaunchConfigFile), cfg); err != nil {
		return err
	}

	relayBin := binPath(baseDir, cfg.RelayChain.Bin)
	relayChain := cfg.RelayChain.Chain
	if !l.skipChainSpec {
		spec, err := l.buildChainSpec(ctx, baseDir, cfg)
		if err != nil {
			return fmt.Errorf("failed building relay chain spec: %w", err)
		}
		relayChain = spec
	}

	for _, n := range cfg.RelayChain.Nodes {
		name := "relay-" + n.Name
		if err := l.spawn(ctx, name, relayBin, relayArgs(relayChain, n), n.WSPort); err != nil {
			return fmt.Errorf("failed starting node %s: %w", name, err)
		}
	}
	for _, p := range cfg.Parachains {
		bin := binPath(baseDir, p.Bin)
		for _, n := range p.Nodes {
			name := fmt.Sprintf("parachain-%d-%s", p.ID, n.Name)
			if err := l.spawn(ctx, name, bin, parachainArgs(p, n, relayChain), n.WSPort); err != nil {
				return fmt.Errorf("failed starting node %s: %w", name, err)
			}
		}
	}

	if err := l.writeRunFile(); err != nil {
		l.log.Warn("could not write network process info to file", zap.Error(err))
	}

	return l.waitReady(ctx)
}

func (l *ProcessLauncher) spawn(ctx context.Context, name, bin string, args []string, wsPort int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.stopped {
		return errors.New("launcher already stopped")
	}

	logPath := filepath.Join(l.runDir, name+constants.NodeLogFileSuffix)
	logFile, err := os.Create(logPath)
	if err != nil {
		return err
	}

	cmd := exec.Command(bin, args...) //nolint:gosec // G204: binaries come from the resolver
	cmd.Env = os.Environ()
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return err
	}

	n := &node{
		name:    name,
		bin:     bin,
		wsPort:  wsPort,
		cmd:     cmd,
		logFile: logFile,
		done:    make(chan struct{}),
	}
	go n.wait()
	l.nodes = append(l.nodes, n)

	l.log.Info("node started",
		zap.String("node", name),
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("args", args),
	)
	ux.Logger.PrintToUser("Started %s, pid: %d, output at: %s", name, cmd.Process.Pid, logPath)
	return nil
}

// StopAll stops every tracked node in reverse start order and removes the run file.
// Calls after the first one do nothing.
func (l *ProcessLauncher) StopAll() error {
	l.lock.Lock()
	if l.stopped {
		l.lock.Unlock()
		return nil
	}
	l.stopped = true
	nodes := l.nodes
	l.lock.Unlock()

	var errs []error
	for i := len(nodes) - 1; i >= 0; i-- {
		if err := nodes[i].stop(l.stopGrace, l.log); err != nil {
			errs = append(errs, fmt.Errorf("failed stopping node %s: %w", nodes[i].name, err))
		}
	}
	if err := os.Remove(l.RunFile()); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Nodes returns the names of the tracked nodes, in start order
func (l *ProcessLauncher) Nodes() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	names := make([]string, 0, len(l.nodes))
	for _, n := range l.nodes {
		names = append(names, n.name)
	}
	return names
}

func binPath(baseDir, bin string) string {
	bin = utils.ExpandHome(bin)
	if filepath.IsAbs(bin) {
		return bin
	}
	return filepath.Join(baseDir, bin)
}
