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

// maxRetainedBufSize limits size of buffers kept in the pool, so a single
// huge metric doesn't pin memory forever
const maxRetainedBufSize = 2048

// getBuf takes buffer from the pool, or allocates new one with room for size bytes
func (c *Client) getBuf(size int) []byte {
	select {
	case buf := <-c.bufPool:
		if cap(buf) >= size {
			return buf[0:0]
		}

		c.putBuf(buf)
	default:
	}

	if size < maxRetainedBufSize/2 {
		size = maxRetainedBufSize / 2
	}

	return make([]byte, 0, size)
}

// putBuf returns buffer to the pool
func (c *Client) putBuf(buf []byte) {
	if cap(buf) > maxRetainedBufSize {
		return
	}

	select {
	case c.bufPool <- buf:
	default:
		// pool is full, let GC handle the buf
	}
}

// encode serializes metric into pooled buffer applying prefix and default tags
func (c *Client) encode(m Metric) []byte {
	buf := c.getBuf(m.frameLen(c.options.MetricPrefix, c.options.DefaultTags))

	return m.appendFrame(buf, c.options.MetricPrefix, c.options.DefaultTags)
}
