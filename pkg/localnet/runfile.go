// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package localnet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/utils"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"
)

// linux truncates process names to this length
const maxProcNameLen = 15

type runFile struct {
	Pid   int       `json:"pid"`
	Nodes []runNode `json:"nodes"`
}

type runNode struct {
	Name    string `json:"name"`
	Bin     string `json:"bin"`
	Pid     int    `json:"pid"`
	LogFile string `json:"logFile"`
}

func (l *ProcessLauncher) writeRunFile() error {
	l.lock.Lock()
	rf := runFile{Pid: os.Getpid()}
	for _, n := range l.nodes {
		rf.Nodes = append(rf.Nodes, runNode{
			Name:    n.name,
			Bin:     n.bin,
			Pid:     n.pid(),
			LogFile: n.logFile.Name(),
		})
	}
	l.lock.Unlock()
	return utils.WriteJSON(l.RunFile(), &rf)
}

// KillStale stops the nodes recorded in a run file left behind by a previous
// run that did not get to tear down, then removes the file.
// Pids now owned by a different program are left alone.
func KillStale(runFilePath string, grace time.Duration, log *zap.Logger) error {
	if !utils.FileExists(runFilePath) {
		return nil
	}
	var rf runFile
	if err := utils.ReadJSON(runFilePath, &rf); err != nil {
		return fmt.Errorf("failed reading process info file at %s: %w", runFilePath, err)
	}

	var errs []error
	for _, n := range rf.Nodes {
		if err := killStaleNode(n, grace, log); err != nil {
			errs = append(errs, fmt.Errorf("failed stopping stale node %s (pid %d): %w", n.Name, n.Pid, err))
		}
	}
	if err := os.Remove(runFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func killStaleNode(n runNode, grace time.Duration, log *zap.Logger) error {
	pid := int32(n.Pid) //nolint:gosec // G115: pids fit in int32
	exists, err := process.PidExists(pid)
	if err != nil || !exists {
		return err
	}
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	name, err := p.Name()
	if err != nil {
		return err
	}
	if !sameProgram(name, n.Bin) {
		log.Debug("pid reused by another program, skipping", zap.String("node", n.Name), zap.Int32("pid", pid), zap.String("program", name))
		return nil
	}

	log.Info("stopping stale node", zap.String("node", n.Name), zap.Int32("pid", pid))
	if err := p.Terminate(); err != nil {
		return err
	}
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if exists, err := process.PidExists(pid); err == nil && !exists {
			return nil
		}
		time.Sleep(constants.ReadyPollInterval)
	}
	if exists, err := process.PidExists(pid); err == nil && !exists {
		return nil
	}
	return p.Kill()
}

func sameProgram(procName, bin string) bool {
	base := filepath.Base(bin)
	if procName == base {
		return true
	}
	return len(procName) >= maxProcNameLen && strings.HasPrefix(base, procName)
}
