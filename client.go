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
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Errors returned by the client
var (
	ErrNotConnected     = errors.New("statsd: client is not connected")
	ErrAlreadyConnected = errors.New("statsd: client is already connected")
	ErrClientClosed     = errors.New("statsd: client is closed")
)

// Client implements blocking DogStatsD client
//
// Client owns bound UDP socket. Unconnected client sends each metric to
// the address given with SendTo, connected client sends to the destination
// fixed by Connect (or Dial). Each send writes exactly one datagram and
// blocks until the OS accepts it.
//
// Sequential use by a single goroutine keeps datagrams in call order.
type Client struct {
	options ClientOptions

	connLock  sync.RWMutex
	conn      *net.UDPConn
	connected bool
	closed    bool

	bufPool chan []byte

	stats *clientStats
}

func newClient(options []Option) (*Client, error) {
	c := &Client{
		options: ClientOptions{
			MetricPrefix:    DefaultMetricPrefix,
			WriteTimeout:    DefaultWriteTimeout,
			Logger:          zerolog.Nop(),
			BufPoolCapacity: DefaultBufPoolCapacity,
			StatsNamespace:  DefaultStatsNamespace,
		},
	}

	for _, option := range options {
		option(&c.options)
	}

	c.bufPool = make(chan []byte, c.options.BufPoolCapacity)

	var err error
	if c.stats, err = newClientStats(&c.options); err != nil {
		return nil, fmt.Errorf("statsd: error registering stats: %w", err)
	}

	return c, nil
}

// Bind creates unconnected client bound to localAddr ("host:port", port 0 picks ephemeral port)
//
// Metrics are sent with SendTo, or with Send after Connect.
func Bind(localAddr string, options ...Option) (*Client, error) {
	c, err := newClient(options)
	if err != nil {
		return nil, err
	}

	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("statsd: error resolving local address %q: %w", localAddr, err)
	}

	c.conn, err = net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("statsd: error binding to %q: %w", localAddr, err)
	}

	c.options.Logger.Debug().Str("local_addr", c.conn.LocalAddr().String()).Msg("bound statsd client")

	return c, nil
}

// Dial creates client bound to localAddr and connected to destAddr
func Dial(localAddr, destAddr string, options ...Option) (*Client, error) {
	c, err := newClient(options)
	if err != nil {
		return nil, err
	}

	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("statsd: error resolving local address %q: %w", localAddr, err)
	}

	raddr, err := net.ResolveUDPAddr("udp", destAddr)
	if err != nil {
		return nil, fmt.Errorf("statsd: error resolving destination %q: %w", destAddr, err)
	}

	c.conn, err = net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("statsd: error connecting to %q: %w", destAddr, err)
	}

	c.connected = true

	c.options.Logger.Debug().
		Str("local_addr", c.conn.LocalAddr().String()).
		Str("remote_addr", c.conn.RemoteAddr().String()).
		Msg("connected statsd client")

	return c, nil
}

// Connect fixes destination of the client, so that Send could be used
//
// Transition is one way, client can't be disconnected. If destAddr can't be
// resolved, client stays unconnected and usable. Socket is re-created on the
// same local address; if that fails, client is closed.
func (c *Client) Connect(destAddr string) error {
	c.connLock.Lock()
	defer c.connLock.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	if c.connected {
		return ErrAlreadyConnected
	}

	raddr, err := net.ResolveUDPAddr("udp", destAddr)
	if err != nil {
		return fmt.Errorf("statsd: error resolving destination %q: %w", destAddr, err)
	}

	laddr := c.conn.LocalAddr().(*net.UDPAddr)

	_ = c.conn.Close()

	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		c.closed = true
		return fmt.Errorf("statsd: error connecting to %q: %w", destAddr, err)
	}

	c.conn = conn
	c.connected = true

	c.options.Logger.Debug().
		Str("local_addr", conn.LocalAddr().String()).
		Str("remote_addr", conn.RemoteAddr().String()).
		Msg("connected statsd client")

	return nil
}

// Connected reports whether destination is fixed
func (c *Client) Connected() bool {
	c.connLock.RLock()
	defer c.connLock.RUnlock()

	return c.connected
}

// LocalAddr returns address the client is bound to
func (c *Client) LocalAddr() net.Addr {
	c.connLock.RLock()
	defer c.connLock.RUnlock()

	return c.conn.LocalAddr()
}

// RemoteAddr returns destination of connected client, nil otherwise
func (c *Client) RemoteAddr() net.Addr {
	c.connLock.RLock()
	defer c.connLock.RUnlock()

	if !c.connected {
		return nil
	}

	return c.conn.RemoteAddr()
}

// Send encodes metric and writes it as a single datagram to the connected destination
//
// Send returns number of bytes written. There's no retry and no delivery
// confirmation, client stays usable after an error.
func (c *Client) Send(m Metric) (int, error) {
	return c.send(m, "", time.Time{})
}

// SendTo encodes metric and writes it as a single datagram to addr
//
// Address is resolved on every call. SendTo is only available for
// unconnected clients.
func (c *Client) SendTo(m Metric, addr string) (int, error) {
	return c.send(m, addr, time.Time{})
}

// send does the actual write, empty addr means connected destination
func (c *Client) send(m Metric, addr string, deadline time.Time) (int, error) {
	c.connLock.RLock()
	defer c.connLock.RUnlock()

	if c.closed {
		return 0, ErrClientClosed
	}

	var raddr *net.UDPAddr

	if addr == "" {
		if !c.connected {
			return 0, ErrNotConnected
		}
	} else {
		if c.connected {
			return 0, ErrAlreadyConnected
		}

		var err error
		raddr, err = net.ResolveUDPAddr("udp", addr)
		if err != nil {
			c.stats.failed()
			return 0, fmt.Errorf("statsd: error resolving destination %q: %w", addr, err)
		}
	}

	if c.options.WriteTimeout > 0 {
		timeout := time.Now().Add(c.options.WriteTimeout)
		if deadline.IsZero() || timeout.Before(deadline) {
			deadline = timeout
		}
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return 0, fmt.Errorf("statsd: error setting write deadline: %w", err)
	}

	buf := c.encode(m)
	defer c.putBuf(buf)

	var (
		n   int
		err error
	)

	if raddr == nil {
		n, err = c.conn.Write(buf)
	} else {
		n, err = c.conn.WriteToUDP(buf, raddr)
	}

	if err != nil {
		c.stats.failed()
		c.options.Logger.Debug().Err(err).Str("metric", m.Name()).Msg("error writing to socket")

		return n, fmt.Errorf("statsd: error writing to socket: %w", err)
	}

	c.stats.sent(n)

	return n, nil
}

// Close releases the socket
func (c *Client) Close() error {
	c.connLock.Lock()
	defer c.connLock.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	c.options.Logger.Debug().Str("local_addr", c.conn.LocalAddr().String()).Msg("closing statsd client")

	return c.conn.Close()
}

// GetSentPackets returns number of datagrams accepted by the OS during client lifecycle
func (c *Client) GetSentPackets() int64 {
	return atomic.LoadInt64(&c.stats.sentPackets)
}

// GetSentBytes returns number of bytes accepted by the OS during client lifecycle
func (c *Client) GetSentBytes() int64 {
	return atomic.LoadInt64(&c.stats.sentBytes)
}

// GetFailedPackets returns number of datagrams which failed to be sent
func (c *Client) GetFailedPackets() int64 {
	return atomic.LoadInt64(&c.stats.failedPackets)
}
