// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package profiles

import "github.com/luxfi/parachain-launch/pkg/constants"

const relayTestnetImage = "purestake/moonbase-relay-testnet:sha-aa386760"

func relayImage(image, runtime string) NetworkDescriptor {
	return NetworkDescriptor{
		RuntimeID:       runtime,
		ContainerImage:  image,
		BinaryName:      constants.RelayBinaryName,
		ImageBinaryPath: constants.RelayImageBinaryPath,
	}
}

func parachainImage(image, runtime, relay string) ParachainDescriptor {
	return ParachainDescriptor{
		NetworkDescriptor: NetworkDescriptor{
			RuntimeID:       runtime,
			ContainerImage:  image,
			BinaryName:      constants.ParachainBinaryName,
			ImageBinaryPath: constants.ParachainImageBinaryPath,
		},
		RelayProfileName: relay,
	}
}

// DefaultRelays returns the built-in relay profiles
func DefaultRelays() []NamedRelay {
	return []NamedRelay{
		{Name: "kusama-v9030", Descriptor: relayImage(relayTestnetImage, "kusama-local")},
		{Name: "kusama-v9030-fast", Descriptor: relayImage("purestake/moonbase-relay-testnet:kusama-v0.9.3-fast", "kusama-local")},
		{Name: "rococo-9003", Descriptor: relayImage(relayTestnetImage, "rococo-local")},
		{Name: "rococo-local", Descriptor: NetworkDescriptor{
			RuntimeID:       "rococo-local",
			LocalBinaryPath: "../../polkadot/target/release/polkadot",
		}},
	}
}

// DefaultParachains returns the built-in parachain profiles
func DefaultParachains() []NamedParachain {
	return []NamedParachain{
		{Name: "moonriver-v47", Descriptor: parachainImage("purestake/moonbeam:moonriver-genesis", "moonriver-local", "kusama-v9030")},
		{Name: "moonriver-v47-fast", Descriptor: parachainImage("purestake/moonbase-parachain:moonriver-genesis-fast", "moonriver-local", "kusama-v9030-fast")},
		{Name: "alphanet-v8.1", Descriptor: parachainImage("purestake/moonbeam:v0.8.1", "moonbase-local", "rococo-9003")},
		{Name: "moonriver-local", Descriptor: ParachainDescriptor{
			NetworkDescriptor: NetworkDescriptor{
				RuntimeID:       "moonriver-local",
				LocalBinaryPath: "../target/release/moonbeam",
			},
			RelayProfileName: "kusama-v9030",
		}},
	}
}

// Default returns the registry of built-in profiles
func Default() *Registry {
	r, err := NewRegistry(DefaultRelays(), DefaultParachains())
	if err != nil {
		// built-in tables are static
		panic(err)
	}
	return r
}
