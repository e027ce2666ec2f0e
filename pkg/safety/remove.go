// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package safety provides deletion operations restricted to the tool's own state.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/luxfi/parachain-launch/pkg/constants"
)

// Policy defines which paths are allowed or denied for deletion.
type Policy struct {
	BaseDir       string   // the launch base dir, usually the executable's folder
	AllowPrefixes []string // absolute paths allowed to delete under
	DenyPaths     []string // absolute paths never deletable, matched exactly
}

// DefaultPolicy allows deleting the run state, the logs and the binary cache.
// The base dir itself and the config file are never deleted.
func DefaultPolicy(baseDir string) Policy {
	return Policy{
		BaseDir: baseDir,
		AllowPrefixes: []string{
			filepath.Join(baseDir, constants.RunDir),
			filepath.Join(baseDir, constants.LogDir),
			filepath.Join(baseDir, constants.BuildDir),
		},
		DenyPaths: []string{
			baseDir,
			filepath.Join(baseDir, constants.DefaultConfigName+"."+constants.DefaultConfigType),
		},
	}
}

// RemoveAll removes a directory or file, respecting the policy.
// It returns an error if the target is protected or not in an allowed path.
func RemoveAll(policy Policy, target string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if IsProtected(policy, abs) {
		return fmt.Errorf("refusing to delete protected path: %s (protected by policy)", abs)
	}
	if !IsAllowed(policy, abs) {
		return fmt.Errorf("refusing to delete non-ephemeral path: %s (not in allowed list)", abs)
	}
	return os.RemoveAll(abs)
}

// IsProtected checks if a path is protected by the given policy.
func IsProtected(policy Policy, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return true // If we can't resolve, assume protected
	}
	for _, d := range policy.DenyPaths {
		if filepath.Clean(d) == abs {
			return true
		}
	}
	return false
}

// IsAllowed checks if a path is in the allowed deletion list.
func IsAllowed(policy Policy, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, a := range policy.AllowPrefixes {
		if isUnderOrEqual(abs, a) {
			return true
		}
	}
	return false
}

// isUnderOrEqual returns true if path is equal to or under prefix.
func isUnderOrEqual(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

// RemoveProfileCache removes the cached binaries of a single profile,
// build/<profile>. The profile name must not contain path separators.
func RemoveProfileCache(baseDir, profileName string) error {
	if profileName == "" || profileName == "." || profileName == ".." {
		return fmt.Errorf("invalid profile name: %s", profileName)
	}
	if filepath.Base(profileName) != profileName {
		return fmt.Errorf("profile name cannot contain path separators: %s", profileName)
	}

	buildDir, err := filepath.Abs(filepath.Join(baseDir, constants.BuildDir))
	if err != nil {
		return fmt.Errorf("failed to resolve build directory: %w", err)
	}
	target := filepath.Join(buildDir, profileName)
	if filepath.Dir(target) != buildDir {
		return fmt.Errorf("SAFETY: profile cache must be directly inside the build directory")
	}
	return RemoveAll(DefaultPolicy(baseDir), target)
}
