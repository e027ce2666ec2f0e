// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package localnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/luxfi/parachain-launch/pkg/models"
	"github.com/luxfi/parachain-launch/pkg/utils"
	"go.uber.org/zap"
)

var (
	errNoGenesisRuntime = errors.New("chain spec has no genesis runtime section")
	errNoParasGenesis   = errors.New("chain spec runtime has no paras section")
)

// keys used by different relay runtime versions for the paras genesis
var parasGenesisKeys = []string{"paras", "parachainsParas"}

// buildChainSpec exports the relay chain spec, applies the genesis overrides,
// registers every parachain in genesis and returns the path of the raw spec
func (l *ProcessLauncher) buildChainSpec(ctx context.Context, baseDir string, cfg *models.LaunchConfig) (string, error) {
	relayBin := binPath(baseDir, cfg.RelayChain.Bin)
	out, err := runOutput(ctx, relayBin, "build-spec", "--chain="+cfg.RelayChain.Chain, "--disable-default-bootnode")
	if err != nil {
		return "", err
	}
	spec, err := decodeSpec(out)
	if err != nil {
		return "", err
	}
	runtime, err := genesisRuntime(spec)
	if err != nil {
		return "", err
	}
	mergeGenesis(runtime, cfg.RelayChain.GenesisOverrides)

	for _, p := range cfg.Parachains {
		bin := binPath(baseDir, p.Bin)
		head, err := runOutput(ctx, bin, "export-genesis-state", "--parachain-id="+strconv.Itoa(p.ID), "--chain="+p.Chain)
		if err != nil {
			return "", err
		}
		wasm, err := runOutput(ctx, bin, "export-genesis-wasm", "--chain="+p.Chain)
		if err != nil {
			return "", err
		}
		if err := registerParachain(runtime, p.ID, strings.TrimSpace(string(head)), strings.TrimSpace(string(wasm))); err != nil {
			return "", err
		}
		l.log.Info("parachain registered in relay genesis", zap.Int("id", p.ID), zap.String("chain", p.Chain))
	}

	specPath := filepath.Join(l.runDir, constants.RelaySpecFile)
	if err := utils.WriteJSON(specPath, spec); err != nil {
		return "", err
	}
	raw, err := runOutput(ctx, relayBin, "build-spec", "--chain="+specPath, "--raw", "--disable-default-bootnode")
	if err != nil {
		return "", err
	}
	rawPath := filepath.Join(l.runDir, constants.RelayRawSpecFile)
	if err := os.WriteFile(rawPath, raw, constants.WriteReadReadPerms); err != nil {
		return "", err
	}
	l.log.Info("relay chain spec ready", zap.String("path", rawPath))
	return rawPath, nil
}

func runOutput(ctx context.Context, bin string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec // G204: binaries come from the resolver
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", filepath.Base(bin), args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// decodeSpec keeps numbers as json.Number, balances do not fit in a float64
func decodeSpec(b []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	spec := map[string]interface{}{}
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed decoding chain spec: %w", err)
	}
	return spec, nil
}

func genesisRuntime(spec map[string]interface{}) (map[string]interface{}, error) {
	genesis, ok := spec["genesis"].(map[string]interface{})
	if !ok {
		return nil, errNoGenesisRuntime
	}
	runtime, ok := genesis["runtime"].(map[string]interface{})
	if !ok {
		return nil, errNoGenesisRuntime
	}
	if inner, ok := runtime["runtime_genesis_config"].(map[string]interface{}); ok {
		return inner, nil
	}
	return runtime, nil
}

// mergeGenesis deep merges src into dst, values from src win
func mergeGenesis(dst, src map[string]interface{}) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]interface{})
		dstMap, dstIsMap := dst[k].(map[string]interface{})
		if srcIsMap && dstIsMap {
			mergeGenesis(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

func registerParachain(runtime map[string]interface{}, id int, head, wasm string) error {
	for _, key := range parasGenesisKeys {
		section, ok := runtime[key].(map[string]interface{})
		if !ok {
			continue
		}
		paras, _ := section["paras"].([]interface{})
		section["paras"] = append(paras, []interface{}{id, []interface{}{head, wasm, true}})
		return nil
	}
	return errNoParasGenesis
}
