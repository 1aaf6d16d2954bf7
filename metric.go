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

import "strconv"

// Kind is the type of the metric frame
type Kind int

// Supported frame kinds
const (
	KindCount Kind = iota
	KindIncrement
	KindDecrement
	KindGauge
	KindHistogram
	KindDistribution
	KindSet
)

var kindNames = [...]string{
	KindCount:        "count",
	KindIncrement:    "increment",
	KindDecrement:    "decrement",
	KindGauge:        "gauge",
	KindHistogram:    "histogram",
	KindDistribution: "distribution",
	KindSet:          "set",
}

// String returns human readable name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// suffix is the type marker written after the value
func (k Kind) suffix() string {
	switch k {
	case KindCount, KindIncrement, KindDecrement:
		return "|c"
	case KindGauge:
		return "|g"
	case KindHistogram:
		return "|h"
	case KindDistribution:
		return "|d"
	case KindSet:
		return "|s"
	}

	return ""
}

// Metric is a single measurement ready to be encoded into DogStatsD frame
//
// Metric is a value: builder methods return modified copy, encoding never
// changes the metric
type Metric struct {
	kind  Kind
	name  string
	count int64
	value string
	tags  []Tag
}

// Count creates a counter metric with explicit (possibly negative) delta
func Count(count int64, name string) Metric {
	return Metric{kind: KindCount, name: name, count: count}
}

// Increment creates a counter metric incremented by one
//
// Often used to note a particular event
func Increment(name string) Metric {
	return Metric{kind: KindIncrement, name: name}
}

// Decrement creates a counter metric decremented by one
func Decrement(name string) Metric {
	return Metric{kind: KindDecrement, name: name}
}

// Gauge creates gauge metric, value is pre-formatted number
//
// Gauges are a constant data type. They are not subject to averaging,
// and they don’t change unless you change them.
func Gauge(value, name string) Metric {
	return Metric{kind: KindGauge, name: name, value: value}
}

// Histogram creates histogram metric, value is pre-formatted number
func Histogram(value, name string) Metric {
	return Metric{kind: KindHistogram, name: name, value: value}
}

// Distribution creates distribution metric, value is pre-formatted number
func Distribution(value, name string) Metric {
	return Metric{kind: KindDistribution, name: name, value: value}
}

// Set creates metric which adds unique element to a set
func Set(value, name string) Metric {
	return Metric{kind: KindSet, name: name, value: value}
}

// WithTags returns copy of the metric with tags appended
//
// Tags keep insertion order in the encoded frame
func (m Metric) WithTags(tags ...Tag) Metric {
	if len(tags) == 0 {
		return m
	}

	merged := make([]Tag, 0, len(m.tags)+len(tags))
	merged = append(merged, m.tags...)
	m.tags = append(merged, tags...)

	return m
}

// Kind returns the frame kind
func (m Metric) Kind() Kind {
	return m.kind
}

// Name returns metric name
func (m Metric) Name() string {
	return m.name
}

// Tags returns copy of the metric tags
func (m Metric) Tags() []Tag {
	return append([]Tag(nil), m.tags...)
}

// valueLen is the length of value part without the suffix
func (m Metric) valueLen() int {
	switch m.kind {
	case KindIncrement:
		return 1
	case KindDecrement:
		return 2
	case KindCount:
		return intLen(m.count)
	}

	return len(m.value)
}

// appendValue writes value part without the suffix
func (m Metric) appendValue(buf []byte) []byte {
	switch m.kind {
	case KindIncrement:
		return append(buf, '1')
	case KindDecrement:
		return append(buf, '-', '1')
	case KindCount:
		return strconv.AppendInt(buf, m.count, 10)
	}

	return append(buf, m.value...)
}

// EncodedLen returns exact size of the encoded frame
func (m Metric) EncodedLen() int {
	return m.frameLen("", nil)
}

func (m Metric) frameLen(prefix string, defaultTags []Tag) int {
	n := len(prefix) + len(m.name) + 1 + m.valueLen() + len(m.kind.suffix())

	if len(defaultTags)+len(m.tags) > 0 {
		n += 2 + tagsLen(defaultTags) + tagsLen(m.tags)
		if len(defaultTags) > 0 && len(m.tags) > 0 {
			n++
		}
	}

	return n
}

// AppendTo appends encoded frame to the buffer
func (m Metric) AppendTo(buf []byte) []byte {
	return m.appendFrame(buf, "", nil)
}

// appendFrame encodes the frame with optional name prefix, default tags go first
func (m Metric) appendFrame(buf []byte, prefix string, defaultTags []Tag) []byte {
	buf = append(buf, prefix...)
	buf = append(buf, m.name...)
	buf = append(buf, ':')
	buf = m.appendValue(buf)
	buf = append(buf, m.kind.suffix()...)

	if len(defaultTags)+len(m.tags) == 0 {
		return buf
	}

	buf = append(buf, '|', '#')

	first := true
	for _, list := range [2][]Tag{defaultTags, m.tags} {
		for _, tag := range list {
			if !first {
				buf = append(buf, ',')
			}

			buf = tag.Append(buf)
			first = false
		}
	}

	return buf
}

// Encode serializes metric into the wire frame
//
// Buffer is allocated once with the exact frame size
func (m Metric) Encode() []byte {
	return m.AppendTo(make([]byte, 0, m.EncodedLen()))
}

// String returns the wire frame as text
func (m Metric) String() string {
	return string(m.Encode())
}

// intLen is the number of bytes strconv.AppendInt(buf, v, 10) produces
func intLen(v int64) int {
	n := 1
	u := uint64(v)

	if v < 0 {
		n++
		u = -u
	}

	for u >= 10 {
		u /= 10
		n++
	}

	return n
}
