// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// NewTable creates a table writing to [w] with the given header
func NewTable(w io.Writer, headers ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers...)
	return table
}
