// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package localnet

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const readyHost = "127.0.0.1"

func (l *ProcessLauncher) waitReady(ctx context.Context) error {
	l.lock.Lock()
	nodes := make([]*node, len(l.nodes))
	copy(nodes, l.nodes)
	l.lock.Unlock()

	if l.readyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.readyTimeout)
		defer cancel()
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		if n.wsPort == 0 {
			continue
		}
		g.Go(func() error {
			return waitNode(gctx, n)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	l.log.Info("all nodes ready", zap.Int("nodes", len(nodes)), zap.Duration("elapsed", time.Since(start)))
	ux.Logger.GreenCheckmarkToUser("Network ready, %d nodes running", len(nodes))
	return nil
}

func waitNode(ctx context.Context, n *node) error {
	addr := net.JoinHostPort(readyHost, strconv.Itoa(n.wsPort))
	ticker := time.NewTicker(constants.ReadyPollInterval)
	defer ticker.Stop()

	var dialer net.Dialer
	for {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("node %s not ready on %s: %w", n.name, addr, ctx.Err())
		case <-n.done:
			if n.waitErr != nil {
				return fmt.Errorf("node %s exited before becoming ready: %w", n.name, n.waitErr)
			}
			return fmt.Errorf("node %s exited before becoming ready", n.name)
		case <-ticker.C:
		}
	}
}
