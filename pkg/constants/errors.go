// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrNoFileInContainer = errors.New("no regular file found in container archive")
)
