package main

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: 10.0.0.1:8125
prefix: app.
tags:
  - env:prod
  - urgent
timeout: 250ms
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:0", cfg.Bind)
	assert.Equal(t, "10.0.0.1:8125", cfg.Addr)
	assert.Equal(t, "app.", cfg.Prefix)
	assert.Equal(t, []string{"env:prod", "urgent"}, cfg.Tags)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.False(t, cfg.Async)

	tags := cfg.MetricTags()
	require.Len(t, tags, 2)
	assert.Equal(t, "env:prod", tags[0].Render())
	assert.False(t, tags[1].IsKeyValue())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tags: [unterminated"), 0o600))

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cmd := rootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--addr", "127.0.0.1:9125", "-t", "a:b", "-t", "c", "--async"}))

	cfg := DefaultConfig()
	cfg.Prefix = "keep."
	require.NoError(t, cfg.ApplyFlags(cmd.Flags()))

	assert.Equal(t, "127.0.0.1:9125", cfg.Addr)
	assert.Equal(t, "0.0.0.0:0", cfg.Bind)
	assert.Equal(t, "keep.", cfg.Prefix)
	assert.Equal(t, []string{"a:b", "c"}, cfg.Tags)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.True(t, cfg.Async)
}

func TestBuildMetric(t *testing.T) {
	for _, tc := range []struct {
		kind, name, value string
		expected          string
	}{
		{"increment", "test", "", "test:1|c"},
		{"decrement", "test", "", "test:-1|c"},
		{"count", "test", "-12", "test:-12|c"},
		{"gauge", "test", "1.2", "test:1.2|g"},
		{"histogram", "test", "1.2", "test:1.2|h"},
		{"distribution", "test", "1.2", "test:1.2|d"},
		{"set", "test", "bob", "test:bob|s"},
	} {
		t.Run(tc.kind, func(t *testing.T) {
			m, err := BuildMetric(tc.kind, tc.name, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, m.String())
		})
	}

	for _, tc := range [][3]string{
		{"timer", "test", "1"},
		{"gauge", "test", ""},
		{"count", "test", "1.5"},
		{"increment", "", ""},
	} {
		_, err := BuildMetric(tc[0], tc[1], tc[2])
		assert.Error(t, err, "%v", tc)
	}
}

func TestRootCommand(t *testing.T) {
	collector, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer collector.Close() //nolint:errcheck

	for _, async := range []string{"false", "true"} {
		t.Run("async="+async, func(t *testing.T) {
			cmd := rootCommand()
			cmd.SetArgs([]string{
				"count", "req.count", "30",
				"--bind", "127.0.0.1:0",
				"--addr", collector.LocalAddr().String(),
				"--prefix", "foo.",
				"--tag", "app:service",
				"--tag", "canary",
				"--async=" + async,
			})

			require.NoError(t, cmd.Execute())

			buf := make([]byte, 1500)
			require.NoError(t, collector.SetReadDeadline(time.Now().Add(time.Second)))

			n, err := collector.Read(buf)
			require.NoError(t, err)
			assert.Equal(t, "foo.req.count:30|c|#app:service,canary", string(buf[:n]))
		})
	}
}

func TestRootCommandInvalid(t *testing.T) {
	cmd := rootCommand()
	cmd.SetArgs([]string{"timer", "req.duration", "10"})
	cmd.SetErr(&nopWriter{})

	assert.Error(t, cmd.Execute())
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
