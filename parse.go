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

// Package octomark converts Markdown to HTML incrementally.
//
// A [Parser] accepts the source as a sequence of arbitrarily sized byte
// chunks and appends HTML to a caller-owned [Buffer] as soon as it can.
// Output is monotonic: bytes already emitted are never rewritten,
// so the buffer may be drained between feeds.
// The dialect is a pragmatic subset of common Markdown:
// ATX headings, lists with task markers, blockquotes with lazy
// continuation, fenced code, display and inline math, pipe tables,
// definition lists, emphasis, code spans, links, images, autolinks,
// and strikethrough.
// Lines are terminated by LF only.
package octomark

import "bytes"

// A Parser is an incremental Markdown to HTML converter.
// The zero value is ready to use.
//
// A Parser is single-threaded:
// it must not be used from multiple goroutines concurrently,
// and the output buffer must not be read during a feed.
type Parser struct {
	// EnableHTML passes raw HTML tag spans
	// (comments, CDATA, processing instructions, declarations,
	// and open/closing tags) through to the output verbatim.
	// When false, a '<' that does not open an autolink
	// is escaped to "&lt;".
	EnableHTML bool

	stack       blockStack
	tableAligns []Alignment
	leftover    []byte
}

// Feed appends chunk to the parser's input and converts as much of it
// as can be resolved without seeing more data,
// emitting HTML into out.
//
// The parser works line by line with one line of lookahead,
// so a line is held back until the line after it is complete;
// [*Parser.Finish] flushes whatever remains.
// Feeding an empty chunk is a no-op beyond draining buffered lines.
func (p *Parser) Feed(chunk []byte, out *Buffer) {
	p.leftover = append(p.leftover, chunk...)
	pos := p.drain(false, out)
	if pos > 0 {
		n := copy(p.leftover, p.leftover[pos:])
		p.leftover = p.leftover[:n]
	}
}

// Finish converts any buffered input,
// treating the unterminated tail (if any) as the final line,
// then closes every open block in stack order.
// After Finish the parser is empty and may be reused for a new stream.
func (p *Parser) Finish(out *Buffer) {
	p.drain(true, out)
	p.leftover = p.leftover[:0]
	for p.stack.depth() > 0 {
		p.stack.pop(out)
	}
	p.tableAligns = nil
}

// drain processes complete lines from the leftover buffer
// and returns the number of bytes consumed.
//
// A line is processed only when its one-line lookahead is decidable:
// during a feed that means the following newline has arrived;
// at EOF missing lookahead resolves negatively
// (no table separator, no definition term).
// When the classifier consumes its lookahead line,
// the driver advances past both lines atomically.
func (p *Parser) drain(atEOF bool, out *Buffer) (pos int) {
	data := p.leftover
	for pos < len(data) {
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			if !atEOF {
				return pos
			}
			p.processLine(data[pos:], nil, false, out)
			return len(data)
		}
		line := data[pos : pos+nl]
		after := data[pos+nl+1:]

		var next []byte
		hasNext := false
		if nextNL := bytes.IndexByte(after, '\n'); nextNL >= 0 {
			next = after[:nextNL]
			hasNext = true
		} else if !atEOF {
			// The lookahead line is incomplete; wait for more data.
			return pos
		}

		consumedNext := p.processLine(line, next, hasNext, out)
		pos += nl + 1
		if consumedNext && hasNext {
			pos += len(next) + 1
		}
	}
	return pos
}

func hasBytePrefix(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

func isBlankLine(line []byte) bool {
	for _, b := range line {
		if !(b == '\r' || b == '\n' || b == ' ' || b == '\t') {
			return false
		}
	}
	return true
}

func trimLeftSpaces(b []byte) []byte {
	for len(b) > 0 && b[0] == ' ' {
		b = b[1:]
	}
	return b
}

func trimLeftWhitespace(b []byte) []byte {
	for len(b) > 0 && isSpaceTabOrCR(b[0]) {
		b = b[1:]
	}
	return b
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
