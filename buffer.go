// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package octomark

// bufferSlack is the minimum extra capacity reserved
// beyond an append that outgrows the doubling policy.
const bufferSlack = 1024

// A Buffer is an append-only byte sink that HTML output is emitted into.
// The zero value is an empty buffer ready for use.
//
// The buffer never shrinks on its own;
// the owner decides when to drain it with [*Buffer.Reset]
// between calls to [*Parser.Feed].
// A Buffer must not be read or reset concurrently with a feed.
type Buffer struct {
	buf []byte
}

// Append appends p to the buffer, growing it as necessary.
func (b *Buffer) Append(p []byte) {
	b.grow(len(p))
	b.buf = append(b.buf, p...)
}

// AppendByte appends a single byte to the buffer.
func (b *Buffer) AppendByte(c byte) {
	b.grow(1)
	b.buf = append(b.buf, c)
}

// AppendString appends s to the buffer, growing it as necessary.
func (b *Buffer) AppendString(s string) {
	b.grow(len(s))
	b.buf = append(b.buf, s...)
}

// Len returns the number of bytes held by the buffer.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Bytes returns the bytes appended so far.
// The slice is valid until the next append or [*Buffer.Reset].
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// String returns the bytes appended so far as a string.
func (b *Buffer) String() string {
	return string(b.buf)
}

// Reset truncates the buffer to zero length, retaining its capacity.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

// grow ensures capacity for n more bytes.
// Capacity doubles while that is enough;
// larger requests get the exact size plus [bufferSlack].
func (b *Buffer) grow(n int) {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return
	}
	newCap := 2 * cap(b.buf)
	if newCap < need {
		newCap = need + bufferSlack
	}
	newBuf := make([]byte, len(b.buf), newCap)
	copy(newBuf, b.buf)
	b.buf = newBuf
}
