// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	var n atomic.Int64
	<-Parallel(func(queue chan<- func()) {
		for range 100 {
			queue <- func() { n.Add(1) }
		}
	})
	assert.Equal(t, int64(100), n.Load())
}

func TestParallelEmpty(t *testing.T) {
	select {
	case <-Parallel(func(chan<- func()) {}):
	case <-time.After(time.Second):
		t.Fatal("parallel did not finish")
	}
}

func TestGoesDone(t *testing.T) {
	var goes Goes
	release := make(chan struct{})
	goes.Go(func() { <-release })

	done := goes.Done()
	select {
	case <-done:
		t.Fatal("done before go routine returned")
	default:
	}
	close(release)
	<-done
}
