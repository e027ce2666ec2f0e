// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package profilescmd

import (
	"fmt"
	"io"

	"github.com/luxfi/parachain-launch/pkg/application"
	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/profiles"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"github.com/spf13/cobra"
)

var app *application.Launch

func NewCmd(injectedApp *application.Launch) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the relay and parachain profiles",
		Long: `List every relay and parachain profile that can be launched, with the
runtime it runs and where its binary comes from. Profiles from the file given
with --profiles-file are included.`,
		Args: cobra.NoArgs,
		RunE: listProfiles,
	}
	app = injectedApp
	return cmd
}

func listProfiles(cmd *cobra.Command, _ []string) error {
	registry, err := app.LoadProfiles()
	if err != nil {
		return err
	}
	return printProfiles(cmd.OutOrStdout(), registry)
}

func printProfiles(w io.Writer, registry *profiles.Registry) error {
	fmt.Fprintln(w, "Relay profiles:")
	relays := ux.NewTable(w, "Name", "Runtime", "Kind", "Source")
	for _, r := range registry.Relays() {
		_ = relays.Append([]string{r.Name, r.Descriptor.RuntimeID, sourceKind(r.Descriptor), r.Descriptor.Source()})
	}
	if err := relays.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parachain profiles:")
	parachains := ux.NewTable(w, "Name", "Runtime", "Kind", "Source", "Relay")
	for _, p := range registry.Parachains() {
		d := p.Descriptor
		_ = parachains.Append([]string{p.Name, d.RuntimeID, sourceKind(d.NetworkDescriptor), d.Source(), d.RelayProfileName})
	}
	if err := parachains.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nParachain genesis balance: %s\n", ux.FormatAmount(constants.DefaultParachainBalance))
	return nil
}

func sourceKind(d profiles.NetworkDescriptor) string {
	if d.IsLocal() {
		return "local"
	}
	return "docker"
}
