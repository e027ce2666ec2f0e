// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/spf13/viper"
)

// Config reads settings from viper, so flags, LAUNCH_* env vars and the
// config file all apply with viper's precedence
type Config struct{}

func New() *Config {
	return &Config{}
}

// SetDefaults registers the default value of every setting
func SetDefaults() {
	viper.SetDefault(constants.ConfigLogLevel, constants.DefaultLogLevel)
	viper.SetDefault(constants.ConfigAcquireTimeout, constants.DefaultAcquireTimeout)
	viper.SetDefault(constants.ConfigReadyTimeout, constants.DefaultReadyTimeout)
	viper.SetDefault(constants.ConfigStopGrace, constants.DefaultStopGrace)
	viper.SetDefault(constants.ConfigParachainID, constants.DefaultParachainID)
}

// Load wires env vars and reads [cfgFile], or launch.yaml in [baseDir] when
// [cfgFile] is empty. A missing default config file is not an error.
func Load(cfgFile, baseDir string) error {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(baseDir)
		viper.SetConfigName(constants.DefaultConfigName)
		viper.SetConfigType(constants.DefaultConfigType)
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func (*Config) LogLevel() string {
	return viper.GetString(constants.ConfigLogLevel)
}

func (*Config) ProfilesFile() string {
	return viper.GetString(constants.ConfigProfilesFile)
}

func (*Config) AcquireTimeout() time.Duration {
	return viper.GetDuration(constants.ConfigAcquireTimeout)
}

func (*Config) ReadyTimeout() time.Duration {
	return viper.GetDuration(constants.ConfigReadyTimeout)
}

func (*Config) StopGrace() time.Duration {
	return viper.GetDuration(constants.ConfigStopGrace)
}

func (*Config) Relay() string {
	return viper.GetString(constants.ConfigRelay)
}

func (*Config) ParachainID() int {
	return viper.GetInt(constants.ConfigParachainID)
}

func (*Config) ConfigFileExists() bool {
	return viper.ConfigFileUsed() != ""
}

// GetConfigPath returns the path to the configuration file
func (*Config) GetConfigPath() string {
	return viper.ConfigFileUsed()
}
