// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build !windows

package localnet

import (
	"os/exec"
	"syscall"
)

// setProcAttr puts the node in its own process group, so a terminal
// interrupt reaches only this process and teardown decides how nodes stop
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
