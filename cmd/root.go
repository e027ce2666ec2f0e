// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kardianos/osext"
	"github.com/luxfi/parachain-launch/cmd/cleancmd"
	"github.com/luxfi/parachain-launch/cmd/configcmd"
	"github.com/luxfi/parachain-launch/cmd/profilescmd"
	"github.com/luxfi/parachain-launch/pkg/application"
	"github.com/luxfi/parachain-launch/pkg/config"
	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/utils"
	"github.com/luxfi/parachain-launch/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	app *application.Launch

	Version = "0.1.0"
	cfgFile string
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.AppName + " <parachain>",
		Short: "Launch a local relay chain and parachain test network",
		Long: `Launch a local test network made of a relay chain and one parachain.

The parachain profile picks the parachain binary and its default relay chain.
Binaries come from a local path or are extracted from a docker image into
build/<profile>/ under the base dir, once.

The network runs until interrupted with Ctrl+C, then every node is stopped.

EXAMPLES:

  launch moonriver-v47
  launch alphanet-v8.1 --relay rococo-9003 --parachain-id 2000
  launch profiles
  launch clean --cache`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: createApp,
		RunE:              runLaunch,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           Version,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is launch.yaml in the base dir)")
	addConfigFlags(flags)
	cobra.CheckErr(bindConfigFlags(flags))

	rootCmd.AddCommand(profilescmd.NewCmd(app))
	rootCmd.AddCommand(configcmd.NewCmd(app))
	rootCmd.AddCommand(cleancmd.NewCmd(app))

	return rootCmd
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.String(constants.ConfigBaseDir, "", "base dir for build/, runs/ and logs/ (default is the executable's folder)")
	flags.String(constants.ConfigLogLevel, constants.DefaultLogLevel, "log level for the console output")
	flags.String(constants.ConfigProfilesFile, "", "YAML file with extra relay and parachain profiles")
	flags.Duration(constants.ConfigAcquireTimeout, constants.DefaultAcquireTimeout, "timeout for extracting one binary from a docker image, 0 disables it")
	flags.Duration(constants.ConfigReadyTimeout, constants.DefaultReadyTimeout, "timeout for every node to accept connections")
	flags.Duration(constants.ConfigStopGrace, constants.DefaultStopGrace, "time given to a node to stop before it is killed")
	flags.String(constants.ConfigRelay, "", "relay profile, overrides the parachain's default relay")
	flags.Int(constants.ConfigParachainID, constants.DefaultParachainID, "parachain id")
}

// bindConfigFlags makes every config flag readable through viper, so flags
// take precedence over env vars and the config file
func bindConfigFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		err = viper.BindPFlag(f.Name, f)
	})
	if err != nil {
		return err
	}
	// the base dir is needed before the config file can be found
	return viper.BindEnv(constants.ConfigBaseDir, constants.EnvPrefix+"_BASE_DIR")
}

func createApp(*cobra.Command, []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	if err := config.Load(cfgFile, baseDir); err != nil {
		return fmt.Errorf("failed reading config: %w", err)
	}
	conf := config.New()
	log, err := setupLogging(baseDir, conf.LogLevel())
	if err != nil {
		return err
	}
	app.Setup(baseDir, log, conf)
	if app.Conf.ConfigFileExists() {
		app.Log.Debug("using config file", zap.String("config-file", app.Conf.GetConfigPath()))
	}
	return app.EnsureDirs()
}

func setupEnv() (string, error) {
	baseDir := viper.GetString(constants.ConfigBaseDir)
	if baseDir == "" {
		exeDir, err := osext.ExecutableFolder()
		if err != nil {
			// no logger here yet
			fmt.Printf("unable to find the executable folder %s\n", err)
			return "", err
		}
		baseDir = exeDir
	}
	baseDir, err := filepath.Abs(utils.ExpandHome(baseDir))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(baseDir, constants.DirPerms); err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

// setupLogging logs everything from info up as JSON to logs/launch.log, and
// [level] and up to stderr
func setupLogging(baseDir, level string) (*zap.Logger, error) {
	displayLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	fileLevel := zapcore.InfoLevel
	if displayLevel < fileLevel {
		fileLevel = displayLevel
	}

	logDir := filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logDir, constants.DirPerms); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, constants.LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.WriteReadReadPerms)
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(logFile),
		fileLevel,
	)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		displayLevel,
	)
	log := zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller()).Named(constants.AppName)

	// create the user facing logger as a global var
	// User output goes to stdout, logs go to stderr
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if app.Log != nil {
		_ = app.Log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
