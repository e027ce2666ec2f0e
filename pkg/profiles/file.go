// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package profiles

import (
	"fmt"
	"os"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"gopkg.in/yaml.v3"
)

type fileRelay struct {
	Name              string `yaml:"name"`
	NetworkDescriptor `yaml:",inline"`
}

type fileParachain struct {
	Name                string `yaml:"name"`
	ParachainDescriptor `yaml:",inline"`
}

// File is the on-disk layout of a profiles file
type File struct {
	Relays     []fileRelay     `yaml:"relays"`
	Parachains []fileParachain `yaml:"parachains"`
}

// LoadFile reads extra profiles from the YAML file at [path] and merges them
// on top of [base]. A profile with an existing name replaces the base entry in
// place, new names are appended.
func LoadFile(base *Registry, path string) (*Registry, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: user provided profiles file
	if err != nil {
		return nil, fmt.Errorf("failed reading profiles file %s: %w", path, err)
	}
	return Merge(base, content)
}

// Merge decodes YAML profile data and merges it on top of [base]
func Merge(base *Registry, content []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("invalid profiles file: %w", err)
	}

	relays := base.Relays()
	for _, fr := range f.Relays {
		d := fr.NetworkDescriptor
		if d.ContainerImage != "" {
			d = withImageDefaults(d, constants.RelayBinaryName, constants.RelayImageBinaryPath)
		}
		relays = upsertRelay(relays, NamedRelay{Name: fr.Name, Descriptor: d})
	}

	parachains := base.Parachains()
	for _, fp := range f.Parachains {
		d := fp.ParachainDescriptor
		if d.ContainerImage != "" {
			d.NetworkDescriptor = withImageDefaults(d.NetworkDescriptor, constants.ParachainBinaryName, constants.ParachainImageBinaryPath)
		}
		parachains = upsertParachain(parachains, NamedParachain{Name: fp.Name, Descriptor: d})
	}

	return NewRegistry(relays, parachains)
}

func withImageDefaults(d NetworkDescriptor, binaryName, imagePath string) NetworkDescriptor {
	if d.BinaryName == "" {
		d.BinaryName = binaryName
	}
	if d.ImageBinaryPath == "" {
		d.ImageBinaryPath = imagePath
	}
	return d
}

func upsertRelay(relays []NamedRelay, relay NamedRelay) []NamedRelay {
	for i := range relays {
		if relays[i].Name == relay.Name {
			relays[i] = relay
			return relays
		}
	}
	return append(relays, relay)
}

func upsertParachain(parachains []NamedParachain, para NamedParachain) []NamedParachain {
	for i := range parachains {
		if parachains[i].Name == para.Name {
			parachains[i] = para
			return parachains
		}
	}
	return append(parachains, para)
}
