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

// Package normhtml provides test helpers for checking generated HTML:
// a normalizer that strips insignificant whitespace differences
// and a checker that verifies every opened tag is closed in LIFO order.
package normhtml

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML strips insignificant output differences from HTML:
// runs of whitespace outside pre elements collapse to one space,
// whitespace around block tags is dropped,
// and text is re-escaped with a fixed entity set.
func NormalizeHTML(b []byte) []byte {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var output []byte
	last := html.StartTagToken
	var lastTag string
	inPre := false
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := tok.Text()
			afterTag := last == html.EndTagToken || last == html.StartTagToken
			if afterTag && lastTag == "br" {
				data = bytes.TrimLeft(data, "\n")
			}
			if !inPre {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
				if afterTag && isBlockTag(lastTag) {
					if last == html.StartTagToken {
						data = bytes.TrimLeftFunc(data, unicode.IsSpace)
					} else {
						data = bytes.TrimSpace(data)
					}
				}
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if tag == "pre" {
				inPre = false
			} else if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "</"...)
			output = append(output, tag...)
			output = append(output, ">"...)
			lastTag = tag
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if tag == "pre" {
				inPre = true
			}
			if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "<"...)
			output = append(output, tag...)
			if hasAttr {
				for {
					k, v, more := tok.TagAttr()
					output = append(output, ' ')
					output = append(output, k...)
					if len(v) > 0 {
						output = append(output, `="`...)
						output = append(output, html.EscapeString(string(v))...)
						output = append(output, '"')
					}
					if !more {
						break
					}
				}
			}
			output = append(output, ">"...)
			lastTag = tag
		case html.CommentToken:
			output = append(output, tok.Raw()...)
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

// CheckBalanced tokenizes b and verifies that every non-void opening
// tag has a matching closing tag in LIFO order.
// It returns an error describing the first mismatch.
func CheckBalanced(b []byte) error {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var stack []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if len(stack) > 0 {
				return fmt.Errorf("unclosed <%s> at end of output", stack[len(stack)-1])
			}
			return nil
		case html.StartTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if !isVoidTag(tag) {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if len(stack) == 0 {
				return fmt.Errorf("closing </%s> with no open tag", tag)
			}
			if top := stack[len(stack)-1]; top != tag {
				return fmt.Errorf("closing </%s> while <%s> is open", tag, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// isVoidTag reports tags the generator emits without a closing tag.
func isVoidTag(tag string) bool {
	switch tag {
	case atom.Br.String(), atom.Hr.String(), atom.Img.String(), atom.Input.String():
		return true
	}
	return false
}

// blockTags is the set of block-level tags the generator can emit.
var blockTags = map[string]struct{}{
	atom.Blockquote.String(): {},
	atom.Dd.String():         {},
	atom.Div.String():        {},
	atom.Dl.String():         {},
	atom.Dt.String():         {},
	atom.H1.String():         {},
	atom.H2.String():         {},
	atom.H3.String():         {},
	atom.H4.String():         {},
	atom.H5.String():         {},
	atom.H6.String():         {},
	atom.Hr.String():         {},
	atom.Li.String():         {},
	atom.Ol.String():         {},
	atom.P.String():          {},
	atom.Pre.String():        {},
	atom.Table.String():      {},
	atom.Tbody.String():      {},
	atom.Td.String():         {},
	atom.Th.String():         {},
	atom.Thead.String():      {},
	atom.Tr.String():         {},
	atom.Ul.String():         {},
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}
