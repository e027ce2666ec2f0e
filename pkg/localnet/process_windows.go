// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build windows

package localnet

import "os/exec"

func setProcAttr(*exec.Cmd) {}
