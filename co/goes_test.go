// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/meterio/meter-auction/co"
	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	defer leaktest.Check(t)()

	var goes co.Goes
	var count int32
	for i := 0; i < 10; i++ {
		goes.Go(func() { atomic.AddInt32(&count, 1) })
	}
	<-goes.Done()
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))

	// Wait returns at once when nothing runs
	goes.Wait()
	start := time.Now()
	goes.Go(func() { time.Sleep(20 * time.Millisecond) })
	goes.Wait()
	assert.True(t, time.Since(start) >= 20*time.Millisecond)
}
