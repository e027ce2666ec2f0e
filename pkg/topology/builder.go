// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package topology validates a profile selection and assembles the launch
// configuration for it.
package topology

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/parachain-launch/pkg/binutils"
	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/profiles"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"go.uber.org/zap"
)

// BinaryResolver turns a descriptor into an executable path
type BinaryResolver interface {
	Resolve(ctx context.Context, profileName string, d profiles.NetworkDescriptor) (binutils.ResolvedBinary, error)
}

// Selection is the operator's input
type Selection struct {
	// Args are the positional arguments; exactly one parachain profile name is accepted
	Args []string
	// RelayOverride replaces the parachain's default relay when set
	RelayOverride string
	// ParachainID defaults to 1000 when zero
	ParachainID int
}

// Selected is a validated selection
type Selected struct {
	RelayName     string
	Relay         profiles.NetworkDescriptor
	ParachainName string
	Parachain     profiles.ParachainDescriptor
	ParachainID   int
}

type Builder struct {
	registry *profiles.Registry
	resolver BinaryResolver
	log      *zap.Logger
	quiet    bool
}

type BuilderOption func(*Builder)

// WithoutSummary stops Build from printing the selected profiles
func WithoutSummary() BuilderOption {
	return func(b *Builder) {
		b.quiet = true
	}
}

func NewBuilder(registry *profiles.Registry, resolver BinaryResolver, log *zap.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: registry,
		resolver: resolver,
		log:      log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithResolver returns a copy of the builder resolving binaries with [resolver]
func (b *Builder) WithResolver(resolver BinaryResolver) *Builder {
	c := *b
	c.resolver = resolver
	return &c
}

// Usage returns the command line usage listing every profile name
func (b *Builder) Usage() string {
	return fmt.Sprintf("Usage: %s <%s> [--parachain-id %d] [--relay <%s>]",
		constants.AppName,
		strings.Join(b.registry.ParachainNames(), "|"),
		constants.DefaultParachainID,
		strings.Join(b.registry.RelayNames(), "|"),
	)
}

// Select validates [sel]. The first failed check wins: argument count,
// parachain name, relay name.
func (b *Builder) Select(sel Selection) (*Selected, error) {
	if len(sel.Args) != 1 {
		return nil, &InvalidSelectionError{
			Reason: ReasonArgumentCount,
			Value:  strconv.Itoa(len(sel.Args)),
			Usage:  b.Usage(),
		}
	}
	parachainName := sel.Args[0]
	parachain, err := b.registry.LookupParachain(parachainName)
	if err != nil {
		return nil, &InvalidSelectionError{
			Reason:   ReasonUnknownParachain,
			Value:    parachainName,
			Expected: b.registry.ParachainNames(),
			Usage:    b.Usage(),
		}
	}

	relayName := sel.RelayOverride
	if relayName == "" {
		relayName = parachain.RelayProfileName
	}
	relay, err := b.registry.LookupRelay(relayName)
	if err != nil {
		return nil, &InvalidSelectionError{
			Reason:   ReasonUnknownRelay,
			Value:    relayName,
			Expected: b.registry.RelayNames(),
			Usage:    b.Usage(),
		}
	}

	parachainID := sel.ParachainID
	if parachainID == 0 {
		parachainID = constants.DefaultParachainID
	}
	if parachainID < 0 {
		return nil, &InvalidSelectionError{
			Reason: ReasonInvalidParachainID,
			Value:  strconv.Itoa(parachainID),
			Usage:  b.Usage(),
		}
	}

	return &Selected{
		RelayName:     relayName,
		Relay:         relay,
		ParachainName: parachainName,
		Parachain:     parachain,
		ParachainID:   parachainID,
	}, nil
}

// Build validates [sel], resolves both binaries and merges them into the
// fixed template. Resolver errors are returned unchanged.
func (b *Builder) Build(ctx context.Context, sel Selection) (*models.LaunchConfig, error) {
	s, err := b.Select(sel)
	if err != nil {
		return nil, err
	}

	relayBin, err := b.resolver.Resolve(ctx, s.RelayName, s.Relay)
	if err != nil {
		return nil, err
	}
	parachainBin, err := b.resolver.Resolve(ctx, s.ParachainName, s.Parachain.NetworkDescriptor)
	if err != nil {
		return nil, err
	}
	b.summary("🚀     Relay: %s - %s (%s)", ux.PadRight(s.RelayName, 20), s.Relay.Source(), s.Relay.RuntimeID)
	b.summary("🚀 Parachain: %s - %s (%s)", ux.PadRight(s.ParachainName, 20), s.Parachain.Source(), s.Parachain.RuntimeID)

	b.log.Info("resolved binaries",
		zap.String("relay", s.RelayName),
		zap.String("relayBin", relayBin.Path),
		zap.Stringer("relayOutcome", relayBin.Outcome),
		zap.String("parachain", s.ParachainName),
		zap.String("parachainBin", parachainBin.Path),
		zap.Stringer("parachainOutcome", parachainBin.Outcome),
	)

	cfg := newTemplate()
	cfg.RelayChain.Bin = relayBin.Path
	cfg.RelayChain.Chain = s.Relay.RuntimeID
	cfg.Parachains[0].Bin = parachainBin.Path
	cfg.Parachains[0].Chain = s.Parachain.RuntimeID
	cfg.Parachains[0].ID = s.ParachainID
	return cfg, nil
}

func (b *Builder) summary(msg string, args ...interface{}) {
	if !b.quiet {
		ux.Logger.PrintToUser(msg, args...)
	}
}
