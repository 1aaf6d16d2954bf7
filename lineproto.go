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
	"strconv"

	protocol "github.com/influxdata/line-protocol"
)

// FromLineProtocol converts InfluxDB line protocol metric into DogStatsD metrics
//
// Each field becomes a separate metric named "<measurement>.<field>", tags are
// carried over as key/value tags in the original order. Numeric and boolean
// fields are sent as gauges (booleans as 1 or 0), string fields as set members.
// Fields of other types are skipped. Timestamp is not part of the protocol and is ignored.
func FromLineProtocol(lp protocol.Metric) []Metric {
	var tags []Tag

	if tagList := lp.TagList(); len(tagList) > 0 {
		tags = make([]Tag, 0, len(tagList))
		for _, tag := range tagList {
			tags = append(tags, KeyValueTag(tag.Key, tag.Value))
		}
	}

	fields := lp.FieldList()
	metrics := make([]Metric, 0, len(fields))

	for _, field := range fields {
		name := lp.Name() + "." + field.Key

		var m Metric

		switch v := field.Value.(type) {
		case int64:
			m = Gauge(strconv.FormatInt(v, 10), name)
		case int:
			m = Gauge(strconv.Itoa(v), name)
		case uint64:
			m = Gauge(strconv.FormatUint(v, 10), name)
		case float64:
			m = Gauge(strconv.FormatFloat(v, 'f', -1, 64), name)
		case bool:
			if v {
				m = Gauge("1", name)
			} else {
				m = Gauge("0", name)
			}
		case string:
			m = Set(v, name)
		default:
			continue
		}

		metrics = append(metrics, m.WithTags(tags...))
	}

	return metrics
}
