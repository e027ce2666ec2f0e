// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package profiles

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNoBinarySource   = errors.New("descriptor needs either a local binary path or a container image")
	errTwoBinarySources = errors.New("descriptor cannot have both a local binary path and a container image")
	errNoRuntimeID      = errors.New("descriptor has no runtime id")
	errNoBinaryName     = errors.New("container descriptor has no binary name or image binary path")
	errUnsafeName       = errors.New("must be a single path element")
)

// checkPathElement rejects names that would leave build/ once joined into a path
func checkPathElement(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q %w", name, errUnsafeName)
	}
	return nil
}

// NetworkDescriptor identifies a runnable network role: the chain spec the
// node is started with and where its binary comes from.
type NetworkDescriptor struct {
	// RuntimeID is passed to the node as its --chain value
	RuntimeID string `yaml:"runtime" json:"runtime"`
	// LocalBinaryPath is relative to the tool's base dir
	LocalBinaryPath string `yaml:"binary,omitempty" json:"binary,omitempty"`
	// ContainerImage is the image the binary is extracted from
	ContainerImage string `yaml:"docker,omitempty" json:"docker,omitempty"`
	// BinaryName is the file name used in the build/<profile>/ cache
	BinaryName string `yaml:"binaryName,omitempty" json:"binaryName,omitempty"`
	// ImageBinaryPath is the location of the executable inside ContainerImage
	ImageBinaryPath string `yaml:"imageBinaryPath,omitempty" json:"imageBinaryPath,omitempty"`
	// Checksum is an optional hex encoded sha256 of the extracted binary
	Checksum string `yaml:"checksum,omitempty" json:"checksum,omitempty"`
}

// ParachainDescriptor is a NetworkDescriptor bound to a default relay profile.
type ParachainDescriptor struct {
	NetworkDescriptor `yaml:",inline"`
	RelayProfileName  string `yaml:"relay" json:"relay"`
}

// IsLocal returns true if the binary is expected on disk rather than in an image
func (d NetworkDescriptor) IsLocal() bool {
	return d.LocalBinaryPath != ""
}

// Source returns the binary source for display purposes
func (d NetworkDescriptor) Source() string {
	if d.IsLocal() {
		return d.LocalBinaryPath
	}
	return d.ContainerImage
}

// Validate checks that exactly one binary source is set
func (d NetworkDescriptor) Validate() error {
	switch {
	case d.RuntimeID == "":
		return errNoRuntimeID
	case d.LocalBinaryPath == "" && d.ContainerImage == "":
		return errNoBinarySource
	case d.LocalBinaryPath != "" && d.ContainerImage != "":
		return errTwoBinarySources
	case d.ContainerImage != "" && (d.BinaryName == "" || d.ImageBinaryPath == ""):
		return errNoBinaryName
	case d.ContainerImage != "":
		if err := checkPathElement(d.BinaryName); err != nil {
			return fmt.Errorf("binary name %w", err)
		}
	}
	return nil
}

func (d ParachainDescriptor) Validate() error {
	if err := d.NetworkDescriptor.Validate(); err != nil {
		return err
	}
	if d.RelayProfileName == "" {
		return fmt.Errorf("parachain descriptor has no relay profile")
	}
	return nil
}
