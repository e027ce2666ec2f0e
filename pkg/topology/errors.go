// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package topology

import (
	"fmt"
	"strings"
)

const (
	ReasonArgumentCount      = "argument count"
	ReasonUnknownParachain   = "unknown parachain"
	ReasonUnknownRelay       = "unknown relay"
	ReasonInvalidParachainID = "invalid parachain id"
)

// InvalidSelectionError reports a bad profile selection. It is raised before
// any binary is resolved or process started.
type InvalidSelectionError struct {
	Reason string
	// Value is the offending input
	Value string
	// Expected lists the accepted values, when there is a fixed set
	Expected []string
	// Usage is the command usage line
	Usage string
}

func (e *InvalidSelectionError) Error() string {
	switch e.Reason {
	case ReasonArgumentCount:
		return fmt.Sprintf("invalid arguments (expected: 1, got: %s)", e.Value)
	case ReasonUnknownParachain:
		return fmt.Sprintf("invalid parachain name: %s", e.Value)
	case ReasonUnknownRelay:
		return fmt.Sprintf("invalid relay name: %s", e.Value)
	default:
		return fmt.Sprintf("%s: %s", e.Reason, e.Value)
	}
}

// Help returns the operator facing hint: the usage line or the list of valid names
func (e *InvalidSelectionError) Help() string {
	if e.Reason == ReasonArgumentCount || len(e.Expected) == 0 {
		return e.Usage
	}
	return "Expected one of: " + strings.Join(e.Expected, ", ")
}
