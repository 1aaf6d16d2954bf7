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
	"strings"
)

// Tag is a single metric annotation
//
// Tag is either a bare label ("urgent") or a key/value pair ("env:prod"),
// value text is written as is, without any escaping
type Tag struct {
	key   string
	value string
	pair  bool
}

// SingleTag creates a bare label tag
func SingleTag(text string) Tag {
	return Tag{key: text}
}

// KeyValueTag creates a tag rendered as "key:value"
func KeyValueTag(key, value string) Tag {
	return Tag{key: key, value: value, pair: true}
}

// StringTag is an alias for KeyValueTag
func StringTag(name, value string) Tag {
	return KeyValueTag(name, value)
}

// IntTag creates key/value tag with int value
func IntTag(name string, value int) Tag {
	return KeyValueTag(name, strconv.Itoa(value))
}

// Int64Tag creates key/value tag with int64 value
func Int64Tag(name string, value int64) Tag {
	return KeyValueTag(name, strconv.FormatInt(value, 10))
}

// ParseTag converts "key:value" into key/value tag, text without colon
// becomes a single tag
//
// Only the first colon splits the text, "a:b:c" is key "a" with value "b:c"
func ParseTag(text string) Tag {
	if i := strings.IndexByte(text, ':'); i >= 0 {
		return KeyValueTag(text[:i], text[i+1:])
	}

	return SingleTag(text)
}

// IsKeyValue reports whether tag is a key/value pair
func (tag Tag) IsKeyValue() bool {
	return tag.pair
}

// Key returns label text for single tags and key for key/value tags
func (tag Tag) Key() string {
	return tag.key
}

// Value returns tag value, empty for single tags
func (tag Tag) Value() string {
	return tag.value
}

// Len returns length of rendered tag
func (tag Tag) Len() int {
	if tag.pair {
		return len(tag.key) + 1 + len(tag.value)
	}

	return len(tag.key)
}

// Append renders tag into the buffer
func (tag Tag) Append(buf []byte) []byte {
	buf = append(buf, tag.key...)
	if tag.pair {
		buf = append(buf, ':')
		buf = append(buf, tag.value...)
	}

	return buf
}

// Render returns tag as protocol text
func (tag Tag) Render() string {
	if !tag.pair {
		return tag.key
	}

	return string(tag.Append(make([]byte, 0, tag.Len())))
}

// String implements fmt.Stringer
func (tag Tag) String() string {
	return tag.Render()
}

// tagsLen is the length of rendered tag list, including separators but not the "|#" marker
func tagsLen(tags []Tag) int {
	if len(tags) == 0 {
		return 0
	}

	n := len(tags) - 1
	for _, tag := range tags {
		n += tag.Len()
	}

	return n
}
