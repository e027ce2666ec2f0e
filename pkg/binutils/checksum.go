// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luxfi/parachain-launch/pkg/constants"
)

// FileSHA256 returns the hex encoded sha256 of the file at [path]
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: cache path
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func verifyChecksum(path, expected string) error {
	actual, err := FileSHA256(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: expected %s, got %s", constants.ErrChecksumMismatch, expected, actual)
	}
	return nil
}

// install makes [tmp] executable and moves it to [dest]
func install(tmp, dest string) error {
	if err := os.Chmod(tmp, constants.DefaultPerms755); err != nil { //nolint:gosec // G302: executables need 0755
		return err
	}
	return os.Rename(tmp, dest)
}
