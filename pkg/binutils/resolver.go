// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package binutils turns network descriptors into executables on disk,
// extracting them from container images into a local cache when needed.
package binutils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/profiles"
	"github.com/luxfi/parachain-launch/pkg/utils"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"go.uber.org/zap"
)

const removeTimeout = 30 * time.Second

var errNoRuntime = errors.New("no container runtime available")

// ContainerRuntime is the subset of a container engine used to extract binaries
type ContainerRuntime interface {
	Create(ctx context.Context, image string) (string, error)
	CopyFile(ctx context.Context, handle, srcPath, destPath string) error
	Remove(ctx context.Context, handle string) error
}

// Outcome tags how a binary was resolved
type Outcome int

const (
	// LocalBinary was found at the descriptor's local path
	LocalBinary Outcome = iota
	// CachedHit was found in the build cache, no acquisition happened
	CachedHit
	// Acquired was extracted from a container image during this call
	Acquired
	// Pending is not in the build cache yet, only returned by a Planner
	Pending
)

func (o Outcome) String() string {
	switch o {
	case LocalBinary:
		return "local"
	case CachedHit:
		return "cached"
	case Acquired:
		return "acquired"
	case Pending:
		return "pending"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ResolvedBinary is a path that existed when it was resolved
type ResolvedBinary struct {
	Path    string
	Outcome Outcome
}

type ResolverOption func(*Resolver)

// WithAcquireTimeout bounds a single image extraction. Zero disables the bound.
func WithAcquireTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.acquireTimeout = timeout
	}
}

// WithPlatform overrides the host platform detection
func WithPlatform(p Platform) ResolverOption {
	return func(r *Resolver) {
		r.platform = p
	}
}

// Resolver resolves descriptors relative to a base dir
type Resolver struct {
	baseDir        string
	runtime        ContainerRuntime
	log            *zap.Logger
	acquireTimeout time.Duration
	platform       Platform
}

// NewResolver creates a resolver. [runtime] may be nil if no container
// backed descriptor is ever resolved.
func NewResolver(baseDir string, runtime ContainerRuntime, log *zap.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		baseDir:        baseDir,
		runtime:        runtime,
		log:            log,
		acquireTimeout: constants.DefaultAcquireTimeout,
		platform:       HostPlatform(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CachePath returns build/<profile>/<binary> under the base dir
func (r *Resolver) CachePath(profileName string, d profiles.NetworkDescriptor) string {
	return filepath.Join(r.baseDir, constants.BuildDir, profileName, d.BinaryName)
}

// LocalPath returns the descriptor's local binary path resolved against the base dir
func (r *Resolver) LocalPath(d profiles.NetworkDescriptor) string {
	p := utils.ExpandHome(d.LocalBinaryPath)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.baseDir, p)
}

// Resolve returns the executable for [d]. A local descriptor never falls back
// to a download; a container descriptor is extracted only on a cache miss.
func (r *Resolver) Resolve(ctx context.Context, profileName string, d profiles.NetworkDescriptor) (ResolvedBinary, error) {
	if d.IsLocal() {
		return r.resolveLocal(d)
	}
	return r.resolveImage(ctx, profileName, d)
}

func (r *Resolver) resolveLocal(d profiles.NetworkDescriptor) (ResolvedBinary, error) {
	path := r.LocalPath(d)
	if !utils.FileExists(path) {
		return ResolvedBinary{}, &BinaryUnavailableError{Reason: ReasonMissingLocal, Path: path}
	}
	if !utils.IsExecutable(path) {
		r.log.Warn("local binary is not executable, the node will fail to start", zap.String("path", path))
	}
	return ResolvedBinary{Path: path, Outcome: LocalBinary}, nil
}

func (r *Resolver) resolveImage(ctx context.Context, profileName string, d profiles.NetworkDescriptor) (ResolvedBinary, error) {
	path := r.CachePath(profileName, d)
	if utils.FileExists(path) {
		r.log.Debug("binary cache hit", zap.String("profile", profileName), zap.String("path", path))
		return ResolvedBinary{Path: path, Outcome: CachedHit}, nil
	}
	if !runsImageBinaries(r.platform) {
		r.log.Warn("binaries extracted from node images are linux builds", zap.String("image", d.ContainerImage))
	}

	rel := filepath.Join(constants.BuildDir, profileName, d.BinaryName)
	tracker := ux.NewStepTracker(ux.Logger)
	tracker.Start(fmt.Sprintf("Missing %s locally, downloading it", rel))
	if err := r.acquire(ctx, d, path); err != nil {
		tracker.Failed(err.Error())
		return ResolvedBinary{}, &BinaryUnavailableError{Reason: ReasonDownloadFailed, Image: d.ContainerImage, Err: err}
	}
	tracker.Complete(rel + " downloaded")
	return ResolvedBinary{Path: path, Outcome: Acquired}, nil
}

// acquire extracts the descriptor's binary into [dest]. [dest] is only ever
// created by a rename of a complete, verified file.
func (r *Resolver) acquire(ctx context.Context, d profiles.NetworkDescriptor, dest string) (err error) {
	if r.runtime == nil {
		return errNoRuntime
	}
	if r.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.acquireTimeout)
		defer cancel()
	}
	if err := os.MkdirAll(filepath.Dir(dest), constants.DirPerms); err != nil {
		return fmt.Errorf("failed creating cache dir: %w", err)
	}
	tmp := dest + constants.TmpBinaryExtension
	defer func() { _ = os.Remove(tmp) }()

	handle, err := r.runtime.Create(ctx, d.ContainerImage)
	if err != nil {
		return err
	}
	copyErr := r.runtime.CopyFile(ctx, handle, d.ImageBinaryPath, tmp)

	// removal runs even after a timeout on ctx
	rmCtx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()
	if err := r.runtime.Remove(rmCtx, handle); err != nil {
		r.log.Warn("failed removing extraction container", zap.String("image", d.ContainerImage), zap.Error(err))
	}
	if copyErr != nil {
		return copyErr
	}

	if d.Checksum != "" {
		if err := verifyChecksum(tmp, d.Checksum); err != nil {
			return err
		}
	} else {
		r.log.Debug("no checksum configured, skipping verification", zap.String("image", d.ContainerImage))
	}
	return install(tmp, dest)
}
