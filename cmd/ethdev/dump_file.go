// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/state"
)

// dump files ending with this suffix are snappy framed
const snappySuffix = ".sz"

func readDumpFile(path string) (*state.Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open state dump")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, snappySuffix) {
		r = snappy.NewReader(f)
	}
	return state.ReadDump(r)
}

func writeDumpFile(path string, d *state.Dump) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create state dump")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, snappySuffix) {
		return d.Write(f)
	}
	w := snappy.NewBufferedWriter(f)
	if err := d.Write(w); err != nil {
		return err
	}
	return w.Close()
}
