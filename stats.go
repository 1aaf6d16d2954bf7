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
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// clientStats tracks datagram delivery to the OS
//
// Atomic counters are per client, Prometheus counters are shared between
// clients registered with the same registerer
type clientStats struct {
	sentPackets, sentBytes, failedPackets int64

	sentPacketsCounter   prometheus.Counter
	sentBytesCounter     prometheus.Counter
	failedPacketsCounter prometheus.Counter
}

func newClientStats(options *ClientOptions) (*clientStats, error) {
	s := &clientStats{
		sentPacketsCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: options.StatsNamespace,
			Name:      "datagrams_sent_total",
			Help:      "Total number of datagrams accepted by the OS",
		}),
		sentBytesCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: options.StatsNamespace,
			Name:      "bytes_sent_total",
			Help:      "Total number of bytes accepted by the OS",
		}),
		failedPacketsCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: options.StatsNamespace,
			Name:      "send_errors_total",
			Help:      "Total number of failed datagram writes",
		}),
	}

	if options.Registerer == nil {
		return s, nil
	}

	var err error

	if s.sentPacketsCounter, err = registerCounter(options.Registerer, s.sentPacketsCounter); err != nil {
		return nil, err
	}

	if s.sentBytesCounter, err = registerCounter(options.Registerer, s.sentBytesCounter); err != nil {
		return nil, err
	}

	if s.failedPacketsCounter, err = registerCounter(options.Registerer, s.failedPacketsCounter); err != nil {
		return nil, err
	}

	return s, nil
}

// registerCounter registers counter, or picks up the one registered before
func registerCounter(registerer prometheus.Registerer, counter prometheus.Counter) (prometheus.Counter, error) {
	err := registerer.Register(counter)
	if err == nil {
		return counter, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
			return existing, nil
		}
	}

	return nil, err
}

func (s *clientStats) sent(n int) {
	atomic.AddInt64(&s.sentPackets, 1)
	atomic.AddInt64(&s.sentBytes, int64(n))
	s.sentPacketsCounter.Inc()
	s.sentBytesCounter.Add(float64(n))
}

func (s *clientStats) failed() {
	atomic.AddInt64(&s.failedPackets, 1)
	s.failedPacketsCounter.Inc()
}
