// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/parachain-launch/pkg/application"
	"github.com/luxfi/parachain-launch/pkg/binutils"
	"github.com/luxfi/parachain-launch/pkg/localnet"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/session"
	"github.com/luxfi/parachain-launch/pkg/topology"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/spf13/viper"
)

const testProfiles = `relays:
  - name: test-relay
    runtime: rococo-local
    binary: bin/polkadot
parachains:
  - name: test-para
    runtime: moonbase-local
    binary: bin/moonbeam
    relay: test-relay
  - name: broken-para
    runtime: moonbase-local
    binary: bin/missing
    relay: test-relay
`

type fakeLauncher struct {
	cancel   context.CancelFunc
	startErr error
	starts   int
	stops    int
	cfg      *models.LaunchConfig
}

func (f *fakeLauncher) Start(_ context.Context, _ string, cfg *models.LaunchConfig) error {
	f.starts++
	f.cfg = cfg
	if f.startErr != nil {
		return f.startErr
	}
	f.cancel()
	return nil
}

func (f *fakeLauncher) StopAll() error {
	f.stops++
	return nil
}

type fakeRuntime struct {
	opened  int
	closed  int
	creates int
	removed []string
	// copying is closed when the first copy starts, copies then block until ctx is done
	copying chan struct{}
}

func (f *fakeRuntime) Create(context.Context, string) (string, error) {
	f.creates++
	return fmt.Sprintf("container-%d", f.creates), nil
}

func (f *fakeRuntime) CopyFile(ctx context.Context, _, _, _ string) error {
	if f.copying != nil {
		close(f.copying)
		f.copying = nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeRuntime) Remove(_ context.Context, handle string) error {
	f.removed = append(f.removed, handle)
	return nil
}

func (f *fakeRuntime) Close() error {
	f.closed++
	return nil
}

// useFakes swaps the launch command's collaborators until [restore] is called
func useFakes(launcher localnet.Launcher, runtime *fakeRuntime) (restore func()) {
	savedLauncher, savedRuntime := newLauncher, newRuntime
	newLauncher = func(*application.Launch) localnet.Launcher { return launcher }
	newRuntime = func(*application.Launch) (containerRuntime, error) {
		runtime.opened++
		return runtime, nil
	}
	return func() {
		newLauncher, newRuntime = savedLauncher, savedRuntime
	}
}

func execute(ctx context.Context, args ...string) (string, error) {
	viper.Reset()
	app = application.New()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

var _ = ginkgo.Describe("[Launch]", func() {
	var (
		baseDir  string
		launcher *fakeLauncher
		runtime  *fakeRuntime
		ctx      context.Context
		restore  func()
	)

	ginkgo.BeforeEach(func() {
		baseDir = ginkgo.GinkgoT().TempDir()
		binDir := filepath.Join(baseDir, "bin")
		gomega.Expect(os.MkdirAll(binDir, 0o750)).Should(gomega.Succeed())
		for _, name := range []string{"polkadot", "moonbeam"} {
			gomega.Expect(os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), 0o700)).Should(gomega.Succeed()) //nolint:gosec // test binaries
		}
		gomega.Expect(os.WriteFile(filepath.Join(baseDir, "profiles.yaml"), []byte(testProfiles), 0o600)).Should(gomega.Succeed())

		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(context.Background())
		ginkgo.DeferCleanup(cancel)
		launcher = &fakeLauncher{cancel: cancel}
		runtime = &fakeRuntime{}
		restore = useFakes(launcher, runtime)
	})

	ginkgo.AfterEach(func() {
		restore()
		viper.Reset()
	})

	launch := func(args ...string) error {
		_, err := execute(ctx, append(args, "--base-dir", baseDir, "--profiles-file", "profiles.yaml")...)
		return err
	}

	ginkgo.It("rejects an unknown parachain without starting anything", func() {
		err := launch("not-a-parachain")
		var invalid *topology.InvalidSelectionError
		gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(invalid))
		gomega.Expect(err.Error()).Should(gomega.Equal("invalid parachain name: not-a-parachain"))
		gomega.Expect(launcher.starts).Should(gomega.BeZero())
		gomega.Expect(runtime.opened).Should(gomega.BeZero())
		gomega.Expect(filepath.Join(baseDir, "build")).Should(gomega.BeADirectory())
		entries, _ := os.ReadDir(filepath.Join(baseDir, "build"))
		gomega.Expect(entries).Should(gomega.BeEmpty())
	})

	ginkgo.It("rejects a missing parachain argument", func() {
		err := launch()
		gomega.Expect(err).Should(gomega.MatchError(gomega.ContainSubstring("expected: 1, got: 0")))
		gomega.Expect(launcher.starts).Should(gomega.BeZero())
	})

	ginkgo.It("rejects an unknown relay override", func() {
		err := launch("test-para", "--relay", "polkadot-mainnet")
		gomega.Expect(err).Should(gomega.MatchError("invalid relay name: polkadot-mainnet"))
		gomega.Expect(launcher.starts).Should(gomega.BeZero())
		gomega.Expect(runtime.opened).Should(gomega.BeZero())
	})

	ginkgo.It("reports a missing local binary without starting anything", func() {
		err := launch("broken-para")
		var unavailable *binutils.BinaryUnavailableError
		gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(unavailable))
		gomega.Expect(launcher.starts).Should(gomega.BeZero())
	})

	ginkgo.It("launches the selected profiles and tears down once", func() {
		gomega.Expect(launch("test-para", "--parachain-id", "2000")).Should(gomega.Succeed())
		gomega.Expect(launcher.starts).Should(gomega.Equal(1))
		gomega.Expect(launcher.stops).Should(gomega.Equal(1))
		gomega.Expect(runtime.creates).Should(gomega.BeZero())
		gomega.Expect(runtime.closed).Should(gomega.Equal(1))

		cfg := launcher.cfg
		gomega.Expect(cfg.RelayChain.Bin).Should(gomega.Equal(filepath.Join(baseDir, "bin", "polkadot")))
		gomega.Expect(cfg.RelayChain.Chain).Should(gomega.Equal("rococo-local"))
		gomega.Expect(cfg.Parachains).Should(gomega.HaveLen(1))
		gomega.Expect(cfg.Parachains[0].Bin).Should(gomega.Equal(filepath.Join(baseDir, "bin", "moonbeam")))
		gomega.Expect(cfg.Parachains[0].ID).Should(gomega.Equal(2000))
		gomega.Expect(filepath.Join(baseDir, "logs", "launch.log")).Should(gomega.BeARegularFile())
	})

	ginkgo.It("tears down when the network fails to start", func() {
		launcher.startErr = os.ErrDeadlineExceeded
		err := launch("test-para")
		var failure *session.LaunchFailureError
		gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(failure))
		gomega.Expect(err).Should(gomega.MatchError(os.ErrDeadlineExceeded))
		gomega.Expect(launcher.stops).Should(gomega.Equal(1))
	})

	ginkgo.It("prints the launch config without pulling images", func() {
		out, err := execute(ctx, "config", "moonriver-v47", "--base-dir", baseDir, "--parachain-id", "1001")
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(out).Should(gomega.ContainSubstring(filepath.Join(baseDir, "build", "moonriver-v47", "moonbeam")))
		gomega.Expect(out).Should(gomega.ContainSubstring(filepath.Join(baseDir, "build", "kusama-v9030", "polkadot")))
		gomega.Expect(out).Should(gomega.ContainSubstring(`"id": 1001`))
		gomega.Expect(launcher.starts).Should(gomega.BeZero())
		gomega.Expect(filepath.Join(baseDir, "build", "moonriver-v47")).ShouldNot(gomega.BeADirectory())
	})

	ginkgo.It("lists the profiles, including the profiles file", func() {
		out, err := execute(ctx, "profiles", "--base-dir", baseDir, "--profiles-file", "profiles.yaml")
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(out).Should(gomega.ContainSubstring("moonriver-v47"))
		gomega.Expect(out).Should(gomega.ContainSubstring("test-para"))
	})

	ginkgo.It("cleans the run state and one profile cache", func() {
		_, err := execute(ctx, "profiles", "--base-dir", baseDir)
		gomega.Expect(err).Should(gomega.BeNil())
		runFile := filepath.Join(baseDir, "runs", "launch-config.json")
		gomega.Expect(os.WriteFile(runFile, []byte("{}"), 0o600)).Should(gomega.Succeed())
		for _, p := range []string{"moonriver-v47", "kusama-v9030"} {
			gomega.Expect(os.MkdirAll(filepath.Join(baseDir, "build", p), 0o750)).Should(gomega.Succeed())
		}

		_, err = execute(ctx, "clean", "--base-dir", baseDir, "--profile", "moonriver-v47")
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(runFile).ShouldNot(gomega.BeAnExistingFile())
		gomega.Expect(filepath.Join(baseDir, "build", "moonriver-v47")).ShouldNot(gomega.BeADirectory())
		gomega.Expect(filepath.Join(baseDir, "build", "kusama-v9030")).Should(gomega.BeADirectory())
		gomega.Expect(filepath.Join(baseDir, "bin", "polkadot")).Should(gomega.BeARegularFile())
	})
})
