// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package profiles holds the named relay and parachain network descriptors
// a launch can be started from.
package profiles

import (
	"fmt"

	"github.com/luxfi/parachain-launch/pkg/constants"
)

// NamedRelay pairs a relay profile name with its descriptor
type NamedRelay struct {
	Name       string
	Descriptor NetworkDescriptor
}

// NamedParachain pairs a parachain profile name with its descriptor
type NamedParachain struct {
	Name       string
	Descriptor ParachainDescriptor
}

// Registry is an immutable lookup of relay and parachain profiles.
// Names are listed in insertion order.
type Registry struct {
	relays         map[string]NetworkDescriptor
	relayNames     []string
	parachains     map[string]ParachainDescriptor
	parachainNames []string
}

// NewRegistry validates every descriptor and builds a Registry.
// Every parachain's default relay must be one of [relays].
func NewRegistry(relays []NamedRelay, parachains []NamedParachain) (*Registry, error) {
	r := &Registry{
		relays:     make(map[string]NetworkDescriptor, len(relays)),
		parachains: make(map[string]ParachainDescriptor, len(parachains)),
	}
	for _, relay := range relays {
		if err := checkPathElement(relay.Name); err != nil {
			return nil, fmt.Errorf("invalid relay profile name: %w", err)
		}
		if _, ok := r.relays[relay.Name]; ok {
			return nil, fmt.Errorf("duplicate relay profile %q", relay.Name)
		}
		if err := relay.Descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("invalid relay profile %q: %w", relay.Name, err)
		}
		r.relays[relay.Name] = relay.Descriptor
		r.relayNames = append(r.relayNames, relay.Name)
	}
	for _, para := range parachains {
		if err := checkPathElement(para.Name); err != nil {
			return nil, fmt.Errorf("invalid parachain profile name: %w", err)
		}
		if _, ok := r.parachains[para.Name]; ok {
			return nil, fmt.Errorf("duplicate parachain profile %q", para.Name)
		}
		if err := para.Descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("invalid parachain profile %q: %w", para.Name, err)
		}
		if _, ok := r.relays[para.Descriptor.RelayProfileName]; !ok {
			return nil, fmt.Errorf("parachain profile %q references unknown relay %q", para.Name, para.Descriptor.RelayProfileName)
		}
		r.parachains[para.Name] = para.Descriptor
		r.parachainNames = append(r.parachainNames, para.Name)
	}
	return r, nil
}

func (r *Registry) LookupRelay(name string) (NetworkDescriptor, error) {
	d, ok := r.relays[name]
	if !ok {
		return NetworkDescriptor{}, fmt.Errorf("relay %q: %w", name, constants.ErrProfileNotFound)
	}
	return d, nil
}

func (r *Registry) LookupParachain(name string) (ParachainDescriptor, error) {
	d, ok := r.parachains[name]
	if !ok {
		return ParachainDescriptor{}, fmt.Errorf("parachain %q: %w", name, constants.ErrProfileNotFound)
	}
	return d, nil
}

// RelayNames returns a copy of the relay profile names
func (r *Registry) RelayNames() []string {
	return append([]string(nil), r.relayNames...)
}

// ParachainNames returns a copy of the parachain profile names
func (r *Registry) ParachainNames() []string {
	return append([]string(nil), r.parachainNames...)
}

// Relays returns all relay profiles in insertion order
func (r *Registry) Relays() []NamedRelay {
	out := make([]NamedRelay, 0, len(r.relayNames))
	for _, name := range r.relayNames {
		out = append(out, NamedRelay{Name: name, Descriptor: r.relays[name]})
	}
	return out
}

// Parachains returns all parachain profiles in insertion order
func (r *Registry) Parachains() []NamedParachain {
	out := make([]NamedParachain, 0, len(r.parachainNames))
	for _, name := range r.parachainNames {
		out = append(out, NamedParachain{Name: name, Descriptor: r.parachains[name]})
	}
	return out
}
