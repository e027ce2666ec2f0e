// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package localnet

import (
	"os"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"
)

type node struct {
	name    string
	bin     string
	wsPort  int
	cmd     *exec.Cmd
	logFile *os.File

	done    chan struct{}
	waitErr error
}

func (n *node) wait() {
	n.waitErr = n.cmd.Wait()
	_ = n.logFile.Close()
	close(n.done)
}

func (n *node) exited() bool {
	select {
	case <-n.done:
		return true
	default:
		return false
	}
}

func (n *node) pid() int {
	return n.cmd.Process.Pid
}

// stop interrupts the node, and kills it if it is still around after grace
func (n *node) stop(grace time.Duration, log *zap.Logger) error {
	if n.exited() {
		return nil
	}
	exists, err := process.PidExists(int32(n.pid())) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	// interrupt is not supported on windows, kill right away there
	if err := n.cmd.Process.Signal(os.Interrupt); err == nil {
		select {
		case <-n.done:
			log.Info("node stopped", zap.String("node", n.name), zap.Int("pid", n.pid()))
			return nil
		case <-time.After(grace):
		}
		log.Warn("node did not stop in time, killing it",
			zap.String("node", n.name),
			zap.Int("pid", n.pid()),
			zap.Duration("grace", grace),
		)
	} else if n.exited() {
		return nil
	}

	if err := n.cmd.Process.Kill(); err != nil && !n.exited() {
		return err
	}
	<-n.done
	return nil
}
