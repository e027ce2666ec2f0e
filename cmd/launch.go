// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxfi/parachain-launch/pkg/application"
	"github.com/luxfi/parachain-launch/pkg/binutils"
	"github.com/luxfi/parachain-launch/pkg/docker"
	"github.com/luxfi/parachain-launch/pkg/localnet"
	"github.com/luxfi/parachain-launch/pkg/session"
	"github.com/luxfi/parachain-launch/pkg/topology"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// containerRuntime is the docker runtime as the launch command uses it
type containerRuntime interface {
	binutils.ContainerRuntime
	Close() error
}

// newRuntime and newLauncher build the launch command's collaborators, tests swap them
var (
	newRuntime = func(app *application.Launch) (containerRuntime, error) {
		return docker.NewRuntime(app.Log, ux.Logger.Writer())
	}
	newLauncher = func(app *application.Launch) localnet.Launcher {
		return localnet.NewProcessLauncher(app.GetRunDir(), app.Log,
			localnet.WithReadyTimeout(app.Conf.ReadyTimeout()),
			localnet.WithStopGrace(app.Conf.StopGrace()),
		)
	}
)

func runLaunch(cmd *cobra.Command, args []string) error {
	registry, err := app.LoadProfiles()
	if err != nil {
		return err
	}

	sel := topology.Selection{
		Args:          args,
		RelayOverride: app.Conf.Relay(),
		ParachainID:   app.Conf.ParachainID(),
	}
	selector := topology.NewBuilder(registry, nil, app.Log)
	if _, err := selector.Select(sel); err != nil {
		return selectionError(err)
	}

	// an interrupt while an image is extracted cancels the extraction,
	// so its container still gets removed
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runtime, err := newRuntime(app)
	if err != nil {
		return err
	}
	defer func() {
		_ = runtime.Close()
	}()
	resolver := binutils.NewResolver(app.GetBaseDir(), runtime, app.Log,
		binutils.WithAcquireTimeout(app.Conf.AcquireTimeout()),
	)
	builder := selector.WithResolver(resolver)

	// a previous run that crashed may have left nodes holding our ports
	if err := localnet.KillStale(app.GetRunFile(), app.Conf.StopGrace(), app.Log); err != nil {
		app.Log.Warn("failed cleaning up a previous run", zap.Error(err))
	}

	start := time.Now()
	cfg, err := builder.Build(ctx, sel)
	if err != nil {
		return err
	}
	app.Log.Info("launch config ready", zap.Duration("elapsed", time.Since(start)))

	orchestrator := session.NewOrchestrator(newLauncher(app), app.Log)
	return session.Run(ctx, orchestrator, app.GetBaseDir(), cfg)
}

// selectionError prints the usage or the valid names for an invalid selection
func selectionError(err error) error {
	var invalid *topology.InvalidSelectionError
	if errors.As(err, &invalid) {
		fmt.Fprintln(os.Stderr, invalid.Help())
	}
	return err
}
