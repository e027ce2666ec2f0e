// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package session

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/luxfi/parachain-launch/pkg/localnet"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LaunchFailureError is returned when the network could not be started.
// The nodes that did start have already been stopped when it is returned.
type LaunchFailureError struct {
	Err error
}

func (e *LaunchFailureError) Error() string {
	return fmt.Sprintf("failed launching network: %v", e.Err)
}

func (e *LaunchFailureError) Unwrap() error {
	return e.Err
}

// Orchestrator starts networks through a Launcher and hands back a session
// that owns their teardown
type Orchestrator struct {
	launcher localnet.Launcher
	log      *zap.Logger
}

func NewOrchestrator(launcher localnet.Launcher, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		launcher: launcher,
		log:      log,
	}
}

// Launch starts the network described by [cfg]. On failure everything that
// was started is torn down before the error is returned.
func (o *Orchestrator) Launch(ctx context.Context, baseDir string, cfg *models.LaunchConfig) (*RunSession, error) {
	s := &RunSession{
		launcher: o.launcher,
		log:      o.log,
		state:    Idle,
	}
	s.setState(Starting)
	relay, parachain := cfg.NodeCount()
	o.log.Info("launching network", zap.Int("relayNodes", relay), zap.Int("parachainNodes", parachain))

	if err := o.launcher.Start(ctx, baseDir, cfg); err != nil {
		if stopErr := s.Teardown(); stopErr != nil {
			o.log.Warn("teardown after failed launch", zap.Error(stopErr))
		}
		return nil, &LaunchFailureError{Err: err}
	}
	s.setState(Running)
	return s, nil
}

// RunSession is a running network
type RunSession struct {
	launcher localnet.Launcher
	log      *zap.Logger

	lock  sync.Mutex
	state State

	teardown    sync.Once
	teardownErr error
}

func (s *RunSession) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

func (s *RunSession) setState(state State) {
	s.lock.Lock()
	prev := s.state
	s.state = state
	s.lock.Unlock()
	s.log.Debug("session state", zap.Stringer("from", prev), zap.Stringer("to", state))
}

// Teardown stops the network. Only the first call does anything, later calls
// return the result of the first one.
func (s *RunSession) Teardown() error {
	s.teardown.Do(func() {
		s.setState(Stopping)
		ux.Logger.PrintToUser("Stopping network...")
		s.teardownErr = s.launcher.StopAll()
		s.setState(Stopped)
		if s.teardownErr != nil {
			s.log.Error("network teardown", zap.Error(s.teardownErr))
			return
		}
		ux.Logger.PrintToUser("Network stopped")
	})
	return s.teardownErr
}

// Wait blocks until [ctx] is done
func (*RunSession) Wait(ctx context.Context) {
	<-ctx.Done()
}

// Run launches the network and keeps it up until [ctx] is done or the process
// receives SIGINT or SIGTERM. The network is torn down on every return path.
func Run(ctx context.Context, o *Orchestrator, baseDir string, cfg *models.LaunchConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := o.Launch(ctx, baseDir, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Teardown()
	}()

	ux.Logger.PrintLineSeparator()
	ux.Logger.PrintToUser("Network running, press Ctrl+C to stop")
	ux.Logger.PrintLineSeparator()
	s.Wait(ctx)
	// further interrupts are dropped until the nodes are stopped
	signal.Ignore(os.Interrupt, syscall.SIGTERM)
	defer signal.Reset(os.Interrupt, syscall.SIGTERM)
	stop()
	return s.Teardown()
}
