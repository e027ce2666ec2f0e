// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"os"
	"path/filepath"

	"github.com/luxfi/parachain-launch/pkg/config"
	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/profiles"
	"go.uber.org/zap"
)

type Launch struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
}

func New() *Launch {
	return &Launch{}
}

func (app *Launch) Setup(baseDir string, log *zap.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
}

func (app *Launch) GetBaseDir() string {
	return app.baseDir
}

// GetBuildDir is where binaries extracted from node images are cached
func (app *Launch) GetBuildDir() string {
	return filepath.Join(app.baseDir, constants.BuildDir)
}

func (app *Launch) GetRunDir() string {
	return filepath.Join(app.baseDir, constants.RunDir)
}

func (app *Launch) GetRunFile() string {
	return filepath.Join(app.GetRunDir(), constants.NetworkRunFile)
}

func (app *Launch) GetLogsDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *Launch) GetLogFile() string {
	return filepath.Join(app.GetLogsDir(), constants.LogFileName)
}

// GetProfilesFile returns the configured profiles file, relative paths are
// taken from the base dir. Empty when none is configured.
func (app *Launch) GetProfilesFile() string {
	if app.Conf == nil {
		return ""
	}
	p := app.Conf.ProfilesFile()
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(app.baseDir, p)
}

// EnsureDirs creates the directories the tool writes to
func (app *Launch) EnsureDirs() error {
	for _, dir := range []string{app.GetBuildDir(), app.GetRunDir(), app.GetLogsDir()} {
		if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
			return err
		}
	}
	return nil
}

// LoadProfiles returns the built-in profiles merged with the configured
// profiles file, if any
func (app *Launch) LoadProfiles() (*profiles.Registry, error) {
	registry := profiles.Default()
	path := app.GetProfilesFile()
	if path == "" {
		return registry, nil
	}
	app.Log.Debug("loading profiles file", zap.String("path", path))
	return profiles.LoadFile(registry, path)
}
