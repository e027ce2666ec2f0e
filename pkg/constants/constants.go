// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644
	DirPerms           = 0o750

	AppName = "launch"

	// directories, relative to the base dir
	BuildDir = "build"
	RunDir   = "runs"
	LogDir   = "logs"

	LogFileName        = "launch.log"
	NetworkRunFile     = "network.run"
	LaunchConfigFile   = "launch-config.json"
	RelaySpecFile      = "relay-spec.json"
	RelayRawSpecFile   = "relay-raw.json"
	DefaultConfigName  = "launch"
	DefaultConfigType  = "yaml"
	EnvPrefix          = "LAUNCH"
	NodeLogFileSuffix  = ".log"
	TmpBinaryExtension = ".partial"

	RelayBinaryName          = "polkadot"
	RelayImageBinaryPath     = "/usr/local/bin/polkadot"
	ParachainBinaryName      = "moonbeam"
	ParachainImageBinaryPath = "/moonbeam/moonbeam"

	DefaultParachainID      = 1000
	DefaultParachainBalance = "1000000000000000000000"

	DefaultAcquireTimeout = 10 * time.Minute
	DefaultReadyTimeout   = 2 * time.Minute
	DefaultStopGrace      = 10 * time.Second
	ReadyPollInterval     = 500 * time.Millisecond

	DefaultLogLevel = "warn"
)

// config keys
const (
	ConfigBaseDir        = "base-dir"
	ConfigLogLevel       = "log-level"
	ConfigProfilesFile   = "profiles-file"
	ConfigAcquireTimeout = "acquire-timeout"
	ConfigReadyTimeout   = "ready-timeout"
	ConfigStopGrace      = "stop-grace"
	ConfigRelay          = "relay"
	ConfigParachainID    = "parachain-id"
)
