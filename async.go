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
	"context"
	"sync"
)

// Result is the outcome of a single asynchronous send
type Result struct {
	// Bytes is the number of bytes written
	Bytes int
	// Err is nil if the OS accepted the datagram
	Err error
}

// request is a metric waiting in the send queue
type request struct {
	ctx    context.Context
	metric Metric
	addr   string
	result chan Result
}

// AsyncClient implements non-blocking DogStatsD client
//
// AsyncClient takes ownership of a Client and performs all the writes from
// a single goroutine, so datagrams are written in submission order. Callers
// wait only for the write itself, either on the channel returned by Submit
// or in Send.
type AsyncClient struct {
	client  *Client
	options AsyncOptions

	queueLock sync.RWMutex
	closed    bool
	sendQueue chan *request

	shutdown   chan struct{}
	shutdownWg sync.WaitGroup
}

// NewAsyncClient starts background processing on top of the client
//
// Client should not be used directly after that, AsyncClient closes it on Close.
func NewAsyncClient(client *Client, options ...AsyncOption) *AsyncClient {
	a := &AsyncClient{
		client: client,
		options: AsyncOptions{
			QueueCapacity:  DefaultSendQueueCapacity,
			ReportInterval: DefaultReportInterval,
		},
		shutdown: make(chan struct{}),
	}

	for _, option := range options {
		option(&a.options)
	}

	a.sendQueue = make(chan *request, a.options.QueueCapacity)

	a.shutdownWg.Add(1)
	go a.sendLoop()

	if a.options.ReportInterval > 0 {
		a.shutdownWg.Add(1)
		go a.reportLoop()
	}

	return a
}

// Submit queues metric for the connected destination
//
// Result is delivered exactly once on the returned channel. If ctx is done
// before the metric is written, metric is dropped and result carries ctx.Err().
func (a *AsyncClient) Submit(ctx context.Context, m Metric) <-chan Result {
	return a.submit(ctx, m, "")
}

// SubmitTo queues metric for addr, underlying client should be unconnected
func (a *AsyncClient) SubmitTo(ctx context.Context, m Metric, addr string) <-chan Result {
	return a.submit(ctx, m, addr)
}

// Send writes metric to the connected destination and waits for the result
//
// Send returns early with ctx.Err() when ctx is done, in that case metric
// may or may not have been written.
func (a *AsyncClient) Send(ctx context.Context, m Metric) (int, error) {
	return wait(ctx, a.submit(ctx, m, ""))
}

// SendTo writes metric to addr and waits for the result
func (a *AsyncClient) SendTo(ctx context.Context, m Metric, addr string) (int, error) {
	return wait(ctx, a.submit(ctx, m, addr))
}

func (a *AsyncClient) submit(ctx context.Context, m Metric, addr string) <-chan Result {
	result := make(chan Result, 1)

	a.queueLock.RLock()
	defer a.queueLock.RUnlock()

	if a.closed {
		result <- Result{Err: ErrClientClosed}
		return result
	}

	select {
	case a.sendQueue <- &request{ctx: ctx, metric: m, addr: addr, result: result}:
	case <-ctx.Done():
		result <- Result{Err: ctx.Err()}
	}

	return result
}

func wait(ctx context.Context, result <-chan Result) (int, error) {
	select {
	case r := <-result:
		return r.Bytes, r.Err
	case <-ctx.Done():
		select {
		case r := <-result:
			return r.Bytes, r.Err
		default:
			return 0, ctx.Err()
		}
	}
}

// Close writes metrics already queued, stops background goroutines and closes the client
func (a *AsyncClient) Close() error {
	a.queueLock.Lock()
	if a.closed {
		a.queueLock.Unlock()
		return nil
	}

	a.closed = true
	close(a.sendQueue)
	close(a.shutdown)
	a.queueLock.Unlock()

	a.shutdownWg.Wait()

	return a.client.Close()
}

// GetSentPackets returns number of datagrams accepted by the OS
func (a *AsyncClient) GetSentPackets() int64 {
	return a.client.GetSentPackets()
}

// GetFailedPackets returns number of datagrams which failed to be sent
func (a *AsyncClient) GetFailedPackets() int64 {
	return a.client.GetFailedPackets()
}
