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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Default settings
const (
	DefaultMetricPrefix      = ""
	DefaultWriteTimeout      = 0
	DefaultBufPoolCapacity   = 20
	DefaultSendQueueCapacity = 64
	DefaultStatsNamespace    = "statsd_client"
	DefaultReportInterval    = 0
)

// ClientOptions are statsd client settings
type ClientOptions struct {
	// MetricPrefix is prepended to every metric name
	MetricPrefix string

	// DefaultTags are written before the tags of each metric
	DefaultTags []Tag

	// WriteTimeout limits time spent in a single socket write, zero
	// means no limit
	WriteTimeout time.Duration

	// Logger receives debug events and send failures, failures are
	// still returned to the caller
	Logger zerolog.Logger

	// BufPoolCapacity is the number of encoding buffers kept for reuse
	BufPoolCapacity int

	// Registerer, when set, gets client counters registered
	Registerer prometheus.Registerer

	// StatsNamespace is the namespace of the Prometheus counters
	StatsNamespace string
}

// Option is type for option transport
type Option func(*ClientOptions)

// MetricPrefix is prefix to prepend to every metric being sent
//
// Usually metrics are prefixed with app name, e.g. `app.`.
// To avoid providing this prefix for every metric being collected,
// and to enable shared libraries to collect metric under app name,
// use MetricPrefix to set global prefix for all the app metrics,
// e.g. `MetricPrefix("app.")`.
//
// By default prefix is empty, so datagrams are exactly what Metric.Encode returns.
func MetricPrefix(prefix string) Option {
	return func(c *ClientOptions) {
		c.MetricPrefix = prefix
	}
}

// DefaultTags defines a list of tags to be sent with every metric
//
// Default tags go before the metric's own tags.
func DefaultTags(tags ...Tag) Option {
	return func(c *ClientOptions) {
		c.DefaultTags = append(c.DefaultTags, tags...)
	}
}

// WriteTimeout sets write deadline for each datagram
func WriteTimeout(timeout time.Duration) Option {
	return func(c *ClientOptions) {
		c.WriteTimeout = timeout
	}
}

// Logger is used by the client to report debug events
//
// By default client is silent (zerolog.Nop()).
func Logger(logger zerolog.Logger) Option {
	return func(c *ClientOptions) {
		c.Logger = logger
	}
}

// BufPoolCapacity controls size of pre-allocated buffer cache
//
// Each datagram is encoded into a buffer taken from the cache,
// buffer is returned once the datagram is written.
//
// Default is 20.
func BufPoolCapacity(capacity int) Option {
	return func(c *ClientOptions) {
		c.BufPoolCapacity = capacity
	}
}

// Registerer registers client counters (datagrams, bytes, errors) with Prometheus
//
// Clients sharing the same registerer share the counters.
func Registerer(registerer prometheus.Registerer) Option {
	return func(c *ClientOptions) {
		c.Registerer = registerer
	}
}

// StatsNamespace sets namespace of the Prometheus counters
//
// Default is "statsd_client".
func StatsNamespace(namespace string) Option {
	return func(c *ClientOptions) {
		c.StatsNamespace = namespace
	}
}

// AsyncOptions are settings of AsyncClient
type AsyncOptions struct {
	// QueueCapacity is the number of submitted metrics which can wait for the
	// send goroutine before Submit blocks
	QueueCapacity int

	// ReportInterval is the period of failed sends report, zero disables reporting
	ReportInterval time.Duration
}

// AsyncOption is type for AsyncClient option transport
type AsyncOption func(*AsyncOptions)

// QueueCapacity controls length of the send queue
//
// Default is 64.
func QueueCapacity(capacity int) AsyncOption {
	return func(c *AsyncOptions) {
		c.QueueCapacity = capacity
	}
}

// ReportInterval instructs AsyncClient to periodically log number of failed sends
//
// Report goes to the client Logger at warn level, and only when some sends
// failed during the period. Default is 0 (disabled).
func ReportInterval(interval time.Duration) AsyncOption {
	return func(c *AsyncOptions) {
		c.ReportInterval = interval
	}
}
