// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import "fmt"

const (
	ReasonMissingLocal   = "missing local binary"
	ReasonDownloadFailed = "download failed"
)

// BinaryUnavailableError is returned when a descriptor cannot be turned into
// an executable on disk
type BinaryUnavailableError struct {
	Reason string
	// Path is set for missing local binaries
	Path string
	// Image is set for failed downloads
	Image string
	Err   error
}

func (e *BinaryUnavailableError) Error() string {
	switch {
	case e.Image != "" && e.Err != nil:
		return fmt.Sprintf("binary unavailable: %s (image %s): %v", e.Reason, e.Image, e.Err)
	case e.Image != "":
		return fmt.Sprintf("binary unavailable: %s (image %s)", e.Reason, e.Image)
	default:
		return fmt.Sprintf("binary unavailable: %s: %s", e.Reason, e.Path)
	}
}

func (e *BinaryUnavailableError) Unwrap() error {
	return e.Err
}
