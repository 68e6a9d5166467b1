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

// processLine classifies one complete logical line (without its '\n')
// and emits the resulting HTML.
// next is the following line when the driver has it available;
// it is read-only and consulted for at most one line of lookahead
// (table separator rows and definition terms).
// A true return tells the driver the lookahead line was consumed
// and must be skipped.
func (p *Parser) processLine(line, next []byte, hasNext bool, out *Buffer) (consumedNext bool) {
	// Code and math blocks swallow lines until their closing fence.
	switch p.stack.topKind() {
	case CodeKind:
		if isClosingCodeFence(line) {
			p.stack.pop(out)
		} else {
			appendEscaped(out, line)
			out.AppendByte('\n')
		}
		return false
	case MathKind:
		if hasBytePrefix(trimLeftWhitespace(line), "$$") {
			p.stack.pop(out)
		} else {
			appendEscaped(out, line)
			out.AppendByte('\n')
		}
		return false
	}

	leadingSpaces := 0
	for leadingSpaces < len(line) && line[leadingSpaces] == ' ' {
		leadingSpaces++
	}
	rest := line[leadingSpaces:]

	if isBlankLine(rest) {
		p.stack.closeLeafBlocks(out)
		for {
			k := p.stack.topKind()
			if k != BlockquoteKind && k != DefinitionListKind && k != DefinitionDescriptionKind {
				break
			}
			p.stack.pop(out)
		}
		return false
	}

	// Blockquote prefix: '>' markers, each optionally followed by one space.
	lineQuote := 0
	for len(rest) > 0 && rest[0] == '>' {
		lineQuote++
		rest = rest[1:]
		if len(rest) > 0 && rest[0] == ' ' {
			rest = rest[1:]
		}
	}
	currentQuote := p.stack.countKind(BlockquoteKind)
	if lineQuote < currentQuote && p.stack.topKind() == ParagraphKind {
		// Lazy continuation: a paragraph line keeps its quote depth
		// unless it starts a new block.
		if !startsBlockMarker(trimLeftSpaces(rest)) {
			lineQuote = currentQuote
		}
	}
	for currentQuote > lineQuote {
		k := p.stack.topKind()
		p.stack.pop(out)
		if k == BlockquoteKind {
			currentQuote--
		}
	}
	for p.stack.depth() < lineQuote {
		p.stack.closeParagraphIfOpen(out)
		if !p.stack.push(BlockquoteKind, 0) {
			break
		}
		out.AppendString("<blockquote>")
	}

	rest, isDD := p.parseDefinitionDescription(rest, leadingSpaces, out)
	rest, isList := p.parseListItem(rest, leadingSpaces, out)

	// Fenced code block.
	if hasBytePrefix(rest, "```") {
		p.stack.closeLeafBlocks(out)
		if p.stack.push(CodeKind, 0) {
			out.AppendString("<pre><code")
			lang := rest[3:]
			langEnd := 0
			for langEnd < len(lang) && !isSpaceTabOrCR(lang[langEnd]) {
				langEnd++
			}
			if langEnd > 0 {
				out.AppendString(` class="language-`)
				appendEscaped(out, lang[:langEnd])
				out.AppendString(`"`)
			}
			out.AppendString(">")
			return false
		}
	}

	// Math block.
	if hasBytePrefix(rest, "$$") {
		p.stack.closeLeafBlocks(out)
		if p.stack.push(MathKind, 0) {
			out.AppendString("<div class=\"math\">\n")
			return false
		}
	}

	// ATX heading.
	if len(rest) >= 2 && rest[0] == '#' {
		level := 0
		for level < 6 && level < len(rest) && rest[level] == '#' {
			level++
		}
		if level < len(rest) && rest[level] == ' ' {
			p.stack.closeLeafBlocks(out)
			out.AppendString("<h")
			out.AppendByte('0' + byte(level))
			out.AppendByte('>')
			p.parseInline(rest[level+1:], out)
			out.AppendString("</h")
			out.AppendByte('0' + byte(level))
			out.AppendString(">\n")
			return false
		}
	}

	// Thematic break: exactly three of the same marker.
	if len(rest) == 3 && (string(rest) == "---" || string(rest) == "***" || string(rest) == "___") {
		p.stack.closeLeafBlocks(out)
		out.AppendString("<hr>\n")
		return false
	}

	// Table.
	if len(rest) > 0 && rest[0] == '|' {
		if p.stack.topKind() != TableKind && hasNext {
			if aligns := parseSeparatorRow(next); aligns != nil {
				p.stack.closeLeafBlocks(out)
				if p.stack.push(TableKind, 0) {
					p.tableAligns = aligns
					out.AppendString("<table><thead><tr>")
					p.appendTableRow(rest, "th", out)
					out.AppendString("</tr></thead><tbody>\n")
					return true
				}
			}
		}
		if p.stack.topKind() == TableKind {
			out.AppendString("<tr>")
			p.appendTableRow(rest, "td", out)
			out.AppendString("</tr>\n")
			return false
		}
	}

	// Definition term: the next line starts a description.
	if !isDD && !isList && hasNext {
		if la := trimLeftWhitespace(next); len(la) > 0 && la[0] == ':' {
			p.stack.closeLeafBlocks(out)
			if p.stack.topKind() != DefinitionListKind {
				if p.stack.push(DefinitionListKind, 0) {
					out.AppendString("<dl>\n")
				}
			}
			out.AppendString("<dt>")
			p.parseInline(rest, out)
			out.AppendString("</dt>\n")
			return false
		}
	}

	p.paragraph(rest, isDD, isList, out)
	return false
}

// parseDefinitionDescription handles a ": " prefix,
// opening a definition list if needed
// and replacing any open description with a fresh one.
// It returns the content after the marker and internal spaces.
func (p *Parser) parseDefinitionDescription(rest []byte, leadingSpaces int, out *Buffer) ([]byte, bool) {
	if !hasBytePrefix(rest, ": ") {
		return rest, false
	}
	rest = rest[2:]
	for len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	p.stack.closeParagraphIfOpen(out)
	if !p.stack.contains(DefinitionListKind) {
		if p.stack.push(DefinitionListKind, leadingSpaces) {
			out.AppendString("<dl>\n")
		}
	}
	if p.stack.contains(DefinitionDescriptionKind) {
		for p.stack.depth() > 0 && p.stack.topKind() != DefinitionListKind {
			p.stack.pop(out)
		}
	}
	if p.stack.push(DefinitionDescriptionKind, leadingSpaces) {
		out.AppendString("<dd>")
	}
	return rest, true
}

// parseListItem handles a "- " or "<digit>. " marker.
// Open lists deeper than the marker's indent are closed first;
// a same-kind list at the same indent continues with a new item,
// anything else opens a new list.
// A task marker directly after an unordered bullet
// becomes a disabled checkbox.
func (p *Parser) parseListItem(rest []byte, leadingSpaces int, out *Buffer) ([]byte, bool) {
	internal := 0
	for internal < len(rest) && rest[internal] == ' ' {
		internal++
	}
	r := rest[internal:]
	isUL := len(r) >= 2 && r[0] == '-' && r[1] == ' '
	isOL := len(r) >= 3 && isASCIIDigit(r[0]) && r[1] == '.' && r[2] == ' '
	if !isUL && !isOL {
		return rest, false
	}

	target := UnorderedListKind
	markerLen := 2
	opener := "<ul>\n<li>"
	if isOL {
		target = OrderedListKind
		markerLen = 3
		opener = "<ol>\n<li>"
	}
	currentIndent := leadingSpaces + internal

	for p.stack.depth() > 0 && p.stack.topKind().isList() &&
		(p.stack.topIndent() > currentIndent ||
			(p.stack.topIndent() == currentIndent && p.stack.topKind() != target)) {
		p.stack.pop(out)
	}

	if p.stack.topKind() == target && p.stack.topIndent() == currentIndent {
		p.stack.closeLeafBlocks(out)
		out.AppendString("</li>\n<li>")
	} else {
		p.stack.closeLeafBlocks(out)
		if p.stack.push(target, currentIndent) {
			out.AppendString(opener)
		}
	}

	r = r[markerLen:]
	if isUL && len(r) >= 4 && r[0] == '[' && (r[1] == ' ' || r[1] == 'x') && r[2] == ']' && r[3] == ' ' {
		if r[1] == 'x' {
			out.AppendString(`<input type="checkbox" checked disabled> `)
		} else {
			out.AppendString(`<input type="checkbox"  disabled> `)
		}
		r = r[4:]
	}
	return r, true
}

// appendTableRow splits rest into cells and emits them with the
// given tag, applying the table's column alignments.
// Cells beyond the declared columns render unaligned.
func (p *Parser) appendTableRow(rest []byte, tag string, out *Buffer) {
	for k, cell := range splitTableRow(rest) {
		out.AppendByte('<')
		out.AppendString(tag)
		if k < len(p.tableAligns) {
			out.AppendString(p.tableAligns[k].styleAttr())
		}
		out.AppendByte('>')
		p.parseInline(cell, out)
		out.AppendString("</")
		out.AppendString(tag)
		out.AppendByte('>')
	}
}

// paragraph is the classifier's default:
// open a paragraph unless the enclosing container already holds
// this line's inline text, or continue an open one.
// A trailing double space truncates to a hard break.
func (p *Parser) paragraph(rest []byte, isDD, isList bool, out *Buffer) {
	// A text line interrupts an open table.
	if p.stack.topKind() == TableKind {
		p.stack.pop(out)
	}

	top := p.stack.topKind()
	inContainer := p.stack.depth() > 0 && (top.isList() || top == DefinitionDescriptionKind)
	if top != ParagraphKind && !inContainer {
		if p.stack.push(ParagraphKind, 0) {
			out.AppendString("<p>")
		}
	} else if top == ParagraphKind || (inContainer && !isList && !isDD) {
		out.AppendByte('\n')
	}

	hardBreak := len(rest) >= 2 && rest[len(rest)-1] == ' ' && rest[len(rest)-2] == ' '
	if hardBreak {
		rest = rest[:len(rest)-2]
	}
	p.parseInline(rest, out)
	if hardBreak {
		out.AppendString("<br>")
	}
}

// startsBlockMarker reports whether a line (leading spaces removed)
// begins a block construct.
// Used to decide when a short-quoted line may lazily continue
// a quoted paragraph.
func startsBlockMarker(b []byte) bool {
	switch {
	case hasBytePrefix(b, "```"),
		hasBytePrefix(b, "$$"),
		hasBytePrefix(b, "- "),
		hasBytePrefix(b, "---"),
		hasBytePrefix(b, "***"),
		hasBytePrefix(b, "___"):
		return true
	case len(b) > 0 && (b[0] == '#' || b[0] == ':'):
		return true
	case len(b) >= 3 && isASCIIDigit(b[0]) && b[1] == '.' && b[2] == ' ':
		return true
	}
	return false
}

// isClosingCodeFence reports whether the line,
// trimmed of surrounding whitespace,
// is a run of three or more backticks.
func isClosingCodeFence(line []byte) bool {
	t := trimLeftWhitespace(line)
	end := len(t)
	for end > 0 && isSpaceTabOrCR(t[end-1]) {
		end--
	}
	t = t[:end]
	return len(t) >= 3 && allBytes(t, '`')
}
