package statsd

/*

Copyright (c) 2017 Andrey Smirnov

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

*/

import (
	"sync/atomic"
	"time"
)

// sendLoop writes queued metrics one by one until the queue is closed
func (a *AsyncClient) sendLoop() {
	defer a.shutdownWg.Done()

	for req := range a.sendQueue {
		// caller gave up while request was waiting in the queue
		if err := req.ctx.Err(); err != nil {
			req.result <- Result{Err: err}
			continue
		}

		deadline, _ := req.ctx.Deadline()

		n, err := a.client.send(req.metric, req.addr, deadline)
		req.result <- Result{Bytes: n, Err: err}
	}
}

// reportLoop reports periodically number of failed sends
func (a *AsyncClient) reportLoop() {
	defer a.shutdownWg.Done()

	reportTicker := time.NewTicker(a.options.ReportInterval)
	defer reportTicker.Stop()

	var lastFailed int64

	for {
		select {
		case <-a.shutdown:
			return
		case <-reportTicker.C:
			failed := atomic.LoadInt64(&a.client.stats.failedPackets)
			if failed > lastFailed {
				a.client.options.Logger.Warn().
					Int64("failed", failed-lastFailed).
					Dur("period", a.options.ReportInterval).
					Msg("statsd datagrams failed to be sent")
			}

			lastFailed = failed
		}
	}
}
