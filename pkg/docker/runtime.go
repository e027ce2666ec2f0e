// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package docker uses the local container engine as a binary distribution
// mechanism: create a container from an image, copy one file out, remove it.
// Containers created here are never started.
package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"go.uber.org/zap"
)

// Runtime talks to the Docker Engine API
type Runtime struct {
	cli      *client.Client
	log      *zap.Logger
	progress io.Writer
}

// NewRuntime creates a Runtime configured from the DOCKER_* environment.
// Copy progress is rendered to [progress]; nil disables it.
func NewRuntime(log *zap.Logger, progress io.Writer) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed creating docker client: %w", err)
	}
	return &Runtime{
		cli:      cli,
		log:      log,
		progress: progress,
	}, nil
}

// Create creates (but does not start) a container from [ref] and returns its id.
// The image is pulled if the first create attempt fails.
func (r *Runtime) Create(ctx context.Context, ref string) (string, error) {
	resp, err := r.cli.ContainerCreate(ctx, &container.Config{Image: ref}, nil, nil, nil, "")
	if err == nil {
		return resp.ID, nil
	}
	r.log.Debug("container create failed, pulling image", zap.String("image", ref), zap.Error(err))
	if err := r.pull(ctx, ref); err != nil {
		return "", err
	}
	resp, err = r.cli.ContainerCreate(ctx, &container.Config{Image: ref}, nil, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed creating container from %s: %w", ref, err)
	}
	return resp.ID, nil
}

func (r *Runtime) pull(ctx context.Context, ref string) error {
	rc, err := r.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed pulling image %s: %w", ref, err)
	}
	defer func() { _ = rc.Close() }()
	// the pull only completes once the progress stream is drained
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("failed pulling image %s: %w", ref, err)
	}
	return nil
}

// CopyFile copies the single file at [srcPath] inside container [id] to [destPath] on the host
func (r *Runtime) CopyFile(ctx context.Context, id, srcPath, destPath string) error {
	rc, _, err := r.cli.CopyFromContainer(ctx, id, srcPath)
	if err != nil {
		return fmt.Errorf("failed copying %s out of container %s: %w", srcPath, shortID(id), err)
	}
	defer func() { _ = rc.Close() }()
	return extractFile(rc, destPath, r.progress)
}

// Remove force-removes container [id]
func (r *Runtime) Remove(ctx context.Context, id string) error {
	if err := r.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed removing container %s: %w", shortID(id), err)
	}
	return nil
}

// Close releases the underlying client
func (r *Runtime) Close() error {
	return r.cli.Close()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
