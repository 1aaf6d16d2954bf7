/*
Package statsd implements DogStatsD frame encoding and fire-and-forget UDP delivery.

A metric is described by a kind, a name and an optional ordered list of tags, and is
serialized into a single ASCII frame:

	<name>:<value>|<type>[|#<tag1>,<tag2>,...]

Every frame is sent as its own UDP datagram, there is no batching of several metrics
into one packet and no retry: a datagram lost on the way to the collector is never
reported, only errors returned by the operating system surface to the caller.

Architecture is the following:

  - Metric and Tag are plain values, encoding appends directly into a byte slice using
    zero allocation methods (no `fmt`, no `reflect`)
  - Client owns a bound UDP socket, either unconnected (destination supplied per send)
    or connected (destination fixed once), each send blocks until the OS accepts the datagram
  - AsyncClient puts a single goroutine in front of a Client, callers submit metrics
    and wait for completion on a channel or with a context
  - buffers used for encoding are recycled through a small pool

Tag and name text is never escaped or validated, which matches the de-facto looseness
of the protocol: embedding '|', ',', ':' or a newline produces a malformed frame.

Ideas were borrowed from the following stastd clients:

  - https://github.com/quipo/statsd
  - https://github.com/Unix4ever/statsd
  - https://github.com/alexcesaro/statsd/
  - https://github.com/DataDog/datadog-go
*/
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
