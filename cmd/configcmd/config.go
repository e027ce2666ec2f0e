// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luxfi/parachain-launch/pkg/application"
	"github.com/luxfi/parachain-launch/pkg/binutils"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/topology"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	app    *application.Launch
	format string

	errUnknownFormat = errors.New("unknown output format")
)

func NewCmd(injectedApp *application.Launch) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <parachain>",
		Short: "Print the launch config for a parachain profile",
		Long: `Print the launch config that 'launch <parachain>' would start, without
starting anything or pulling images. Binaries missing from the build cache
show the path they will be extracted to.`,
		RunE: printConfig,
	}
	app = injectedApp
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format, json or yaml")
	return cmd
}

func printConfig(cmd *cobra.Command, args []string) error {
	registry, err := app.LoadProfiles()
	if err != nil {
		return err
	}
	resolver := binutils.NewPlanner(binutils.NewResolver(app.GetBaseDir(), nil, app.Log))
	builder := topology.NewBuilder(registry, resolver, app.Log, topology.WithoutSummary())

	cfg, err := builder.Build(cmd.Context(), topology.Selection{
		Args:          args,
		RelayOverride: app.Conf.Relay(),
		ParachainID:   app.Conf.ParachainID(),
	})
	if err != nil {
		var invalid *topology.InvalidSelectionError
		if errors.As(err, &invalid) {
			fmt.Fprintln(os.Stderr, invalid.Help())
		}
		return err
	}
	return writeConfig(cmd.OutOrStdout(), cfg, format)
}

func writeConfig(w io.Writer, cfg *models.LaunchConfig, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}
