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
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestStatsRegistered(t *testing.T) {
	inSocket, received := setupListener(t)

	registry := prometheus.NewRegistry()

	client, err := Dial("127.0.0.1:0", inSocket.LocalAddr().String(), Registerer(registry))
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	// second client shares the counters
	client2, err := Dial("127.0.0.1:0", inSocket.LocalAddr().String(), Registerer(registry))
	require.NoError(t, err)
	defer client2.Close() //nolint:errcheck

	_, err = client.Send(Increment("test"))
	require.NoError(t, err)
	_, err = client2.Send(Decrement("test"))
	require.NoError(t, err)
	_, err = client.Send(Gauge(strings.Repeat("9", 70000), "test"))
	require.Error(t, err)

	expectDatagram(t, received, "test:1|c")
	expectDatagram(t, received, "test:-1|c")

	assert.EqualValues(t, 1, client.GetSentPackets())
	assert.EqualValues(t, 8, client.GetSentBytes())
	assert.EqualValues(t, 1, client.GetFailedPackets())
	assert.EqualValues(t, 1, client2.GetSentPackets())

	assert.Equal(t, 2.0, testutil.ToFloat64(client.stats.sentPacketsCounter))
	assert.Equal(t, 17.0, testutil.ToFloat64(client.stats.sentBytesCounter))
	assert.Equal(t, 1.0, testutil.ToFloat64(client.stats.failedPacketsCounter))

	count, err := testutil.GatherAndCount(registry,
		"statsd_client_datagrams_sent_total", "statsd_client_bytes_sent_total", "statsd_client_send_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStatsNamespace(t *testing.T) {
	registry := prometheus.NewRegistry()

	client, err := Bind("127.0.0.1:0", Registerer(registry), StatsNamespace("app_statsd"))
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	count, err := testutil.GatherAndCount(registry, "app_statsd_datagrams_sent_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStatsConflict(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: DefaultStatsNamespace,
		Name:      "datagrams_sent_total",
		Help:      "conflicting gauge",
	}))

	_, err := Bind("127.0.0.1:0", Registerer(registry))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var out bytes.Buffer

	client, err := Bind("127.0.0.1:0", Logger(zerolog.New(&out).Level(zerolog.DebugLevel)))
	require.NoError(t, err)

	_, err = client.SendTo(Gauge(strings.Repeat("9", 70000), "big.gauge"), "127.0.0.1:9")
	require.Error(t, err)

	require.NoError(t, client.Close())

	assert.Contains(t, out.String(), `"message":"bound statsd client"`)
	assert.Contains(t, out.String(), `"metric":"big.gauge"`)
	assert.Contains(t, out.String(), `"message":"closing statsd client"`)
}

func TestReportLoop(t *testing.T) {
	var out syncBuffer

	inSocket, _ := setupListener(t)

	client, err := Dial("127.0.0.1:0", inSocket.LocalAddr().String(), Logger(zerolog.New(&out)))
	require.NoError(t, err)

	async := NewAsyncClient(client, ReportInterval(10*time.Millisecond))

	_, err = async.Send(context.Background(), Gauge(strings.Repeat("9", 70000), "test"))
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"failed":1`)
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, async.Close())
}
