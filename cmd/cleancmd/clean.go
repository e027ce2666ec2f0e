// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cleancmd

import (
	"github.com/luxfi/parachain-launch/pkg/application"
	"github.com/luxfi/parachain-launch/pkg/localnet"
	"github.com/luxfi/parachain-launch/pkg/safety"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	app *application.Launch

	cleanCache bool
	profile    string
)

func NewCmd(injectedApp *application.Launch) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Stop leftover nodes and delete the run state",
		Long: `Stop the nodes left running by a previous launch and delete runs/.

With --cache the binaries extracted from docker images under build/ are
deleted too, or only build/<profile> when --profile is given.`,
		Args: cobra.NoArgs,
		RunE: clean,
	}
	app = injectedApp
	cmd.Flags().BoolVar(&cleanCache, "cache", false, "also delete binaries extracted from docker images")
	cmd.Flags().StringVar(&profile, "profile", "", "only delete the cached binaries of this profile, implies --cache")
	return cmd
}

func clean(*cobra.Command, []string) error {
	if err := localnet.KillStale(app.GetRunFile(), app.Conf.StopGrace(), app.Log); err != nil {
		app.Log.Warn("failed stopping leftover nodes", zap.Error(err))
	}

	policy := safety.DefaultPolicy(app.GetBaseDir())
	if err := safety.RemoveAll(policy, app.GetRunDir()); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Deleted %s", app.GetRunDir())

	switch {
	case profile != "":
		if err := safety.RemoveProfileCache(app.GetBaseDir(), profile); err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Deleted cached binaries of %s", profile)
	case cleanCache:
		if err := safety.RemoveAll(policy, app.GetBuildDir()); err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Deleted %s", app.GetBuildDir())
	}
	return nil
}
