// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package docker

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/luxfi/parachain-launch/pkg/constants"
	"github.com/schollz/progressbar/v3"
)

// extractFile writes the first regular file of the tar stream [r] to [dest]
func extractFile(r io.Reader, dest string, progress io.Writer) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return constants.ErrNoFileInContainer
		}
		if err != nil {
			return fmt.Errorf("failed reading container archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		return writeFile(tr, hdr, dest, progress)
	}
}

func writeFile(src io.Reader, hdr *tar.Header, dest string, progress io.Writer) (err error) {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultPerms755) //nolint:gosec // G304: cache path
	if err != nil {
		return err
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	var w io.Writer = out
	if progress != nil {
		bar := progressbar.NewOptions64(
			hdr.Size,
			progressbar.OptionSetWriter(progress),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("extracting "+filepath.Base(hdr.Name)),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		w = io.MultiWriter(out, bar)
	}

	n, err := io.Copy(w, src)
	if err != nil {
		return err
	}
	if n != hdr.Size {
		return fmt.Errorf("short copy of %s: %d of %d bytes", hdr.Name, n, hdr.Size)
	}
	return out.Sync()
}
