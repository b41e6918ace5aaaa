// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"errors"

	"github.com/ethereum/go-ethereum/event"
	"github.com/meterio/meter-auction/co"
	"github.com/meterio/meter-auction/script"
)

const receiptQueueSize = 64

var errLagging = errors.New("subscriber lagging behind")

// relay moves receipts off the engine feed into a bounded queue, so the engine
// never waits on a connection. A subscriber whose queue is full is dropped and
// done reports errLagging.
type relay struct {
	sub   event.Subscription
	queue chan *script.Receipt
	done  chan struct{}
	err   error
	goes  co.Goes
}

func newRelay(engine *script.ScriptEngine, size int) *relay {
	in := make(chan *script.Receipt, 1)
	r := &relay{
		sub:   engine.SubscribeReceipts(in),
		queue: make(chan *script.Receipt, size),
		done:  make(chan struct{}),
	}
	r.goes.Go(func() { r.run(in) })
	return r
}

func (r *relay) run(in <-chan *script.Receipt) {
	defer close(r.done)
	for {
		select {
		case receipt := <-in:
			select {
			case r.queue <- receipt:
			default:
				r.err = errLagging
				r.sub.Unsubscribe()
				return
			}
		case err := <-r.sub.Err():
			// nil once unsubscribed
			r.err = err
			return
		}
	}
}

// stop unsubscribes and waits for the relay to exit.
func (r *relay) stop() {
	r.sub.Unsubscribe()
	r.goes.Wait()
}
