package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	statsd "github.com/smira/go-dogstatsd"
)

// Config is the statsd-send configuration, loaded from YAML and overridden by flags
type Config struct {
	Bind    string        `yaml:"bind"`
	Addr    string        `yaml:"addr"`
	Prefix  string        `yaml:"prefix"`
	Tags    []string      `yaml:"tags"`
	Timeout time.Duration `yaml:"timeout"`
	Async   bool          `yaml:"async"`
}

// DefaultConfig returns settings used when neither file nor flags set them
func DefaultConfig() Config {
	return Config{
		Bind:    "0.0.0.0:0",
		Addr:    "127.0.0.1:8125",
		Timeout: time.Second,
	}
}

// LoadConfig reads YAML file on top of the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyFlags overrides config with the flags set on the command line
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error

	if flags.Changed("bind") {
		if c.Bind, err = flags.GetString("bind"); err != nil {
			return err
		}
	}

	if flags.Changed("addr") {
		if c.Addr, err = flags.GetString("addr"); err != nil {
			return err
		}
	}

	if flags.Changed("prefix") {
		if c.Prefix, err = flags.GetString("prefix"); err != nil {
			return err
		}
	}

	if flags.Changed("tag") {
		tags, err := flags.GetStringSlice("tag")
		if err != nil {
			return err
		}

		c.Tags = append(c.Tags, tags...)
	}

	if flags.Changed("timeout") {
		if c.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}

	if flags.Changed("async") {
		if c.Async, err = flags.GetBool("async"); err != nil {
			return err
		}
	}

	return nil
}

// ClientOptions converts config into client options
func (c *Config) ClientOptions() []statsd.Option {
	return []statsd.Option{
		statsd.MetricPrefix(c.Prefix),
		statsd.WriteTimeout(c.Timeout),
	}
}

// MetricTags parses configured tags
func (c *Config) MetricTags() []statsd.Tag {
	tags := make([]statsd.Tag, 0, len(c.Tags))
	for _, tag := range c.Tags {
		tags = append(tags, statsd.ParseTag(tag))
	}

	return tags
}

// BuildMetric creates metric of the named kind
//
// Value is required for everything except increment and decrement.
func BuildMetric(kind, name string, value string) (statsd.Metric, error) {
	if name == "" {
		return statsd.Metric{}, fmt.Errorf("metric name is required")
	}

	needsValue := kind != "increment" && kind != "decrement"
	if needsValue && value == "" {
		return statsd.Metric{}, fmt.Errorf("%s requires a value", kind)
	}

	switch kind {
	case "increment":
		return statsd.Increment(name), nil
	case "decrement":
		return statsd.Decrement(name), nil
	case "count":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return statsd.Metric{}, fmt.Errorf("invalid count %q: %w", value, err)
		}

		return statsd.Count(n, name), nil
	case "gauge":
		return statsd.Gauge(value, name), nil
	case "histogram":
		return statsd.Histogram(value, name), nil
	case "distribution":
		return statsd.Distribution(value, name), nil
	case "set":
		return statsd.Set(value, name), nil
	}

	return statsd.Metric{}, fmt.Errorf("unknown metric kind %q", kind)
}
