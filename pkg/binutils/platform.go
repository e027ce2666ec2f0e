// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import (
	"runtime"
)

const linux = "linux"

// Platform reports the host architecture
type Platform interface {
	GetArch() (goarch string, goos string)
}

type hostPlatform struct{}

// HostPlatform returns the platform this process runs on
func HostPlatform() Platform {
	return hostPlatform{}
}

func (hostPlatform) GetArch() (string, string) {
	return runtime.GOARCH, runtime.GOOS
}

// runsImageBinaries is false on hosts that cannot execute the linux
// binaries shipped in node images
func runsImageBinaries(p Platform) bool {
	_, goos := p.GetArch()
	return goos == linux
}
