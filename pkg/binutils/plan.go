// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import (
	"context"

	"github.com/luxfi/parachain-launch/pkg/profiles"
	"github.com/luxfi/parachain-launch/pkg/utils"
)

// Planner reports where Resolve would place each binary without extracting
// anything. Missing local binaries are still an error.
type Planner struct {
	resolver *Resolver
}

func NewPlanner(r *Resolver) *Planner {
	return &Planner{resolver: r}
}

func (p *Planner) Resolve(_ context.Context, profileName string, d profiles.NetworkDescriptor) (ResolvedBinary, error) {
	if d.IsLocal() {
		return p.resolver.resolveLocal(d)
	}
	path := p.resolver.CachePath(profileName, d)
	if utils.FileExists(path) {
		return ResolvedBinary{Path: path, Outcome: CachedHit}, nil
	}
	return ResolvedBinary{Path: path, Outcome: Pending}, nil
}
