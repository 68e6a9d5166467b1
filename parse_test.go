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

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/octomark/internal/normhtml"
	"zombiezen.com/go/octomark/internal/suite"
)

// renderChunked converts a document fed in fixed-size chunks.
func renderChunked(markdown string, enableHTML bool, chunkSize int) string {
	p := &Parser{EnableHTML: enableHTML}
	out := new(Buffer)
	for i := 0; i < len(markdown); i += chunkSize {
		end := i + chunkSize
		if end > len(markdown) {
			end = len(markdown)
		}
		p.Feed([]byte(markdown[i:end]), out)
	}
	p.Finish(out)
	return out.String()
}

func TestChunkingInvariance(t *testing.T) {
	cases, err := suite.Load()
	require.NoError(t, err)
	sizes := []int{1, 2, 3, 5, 7, 16, 4096}
	for _, test := range cases {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			want := render(test.Markdown, test.EnableHTML)
			for _, size := range sizes {
				got := renderChunked(test.Markdown, test.EnableHTML, size)
				require.Equalf(t, want, got, "chunk size %d diverged from single feed", size)
			}
		})
	}
}

func TestMonotonicOutput(t *testing.T) {
	const markdown = "# Title\n\n- a\n- b\n\n| h |\n|---|\n| x |\n\n> quote\nlazy\n\n```go\ncode\n```\n"
	p := new(Parser)
	out := new(Buffer)
	var prev []byte
	for i := 0; i < len(markdown); i++ {
		p.Feed([]byte(markdown[i:i+1]), out)
		require.Truef(t, bytes.HasPrefix(out.Bytes(), prev),
			"output after byte %d is not an extension of the previous output", i)
		prev = append(prev[:0], out.Bytes()...)
	}
	p.Finish(out)
	require.True(t, bytes.HasPrefix(out.Bytes(), prev))
}

func TestBalancedTags(t *testing.T) {
	cases, err := suite.Load()
	require.NoError(t, err)
	for _, test := range cases {
		if test.EnableHTML {
			// Raw HTML passthrough is the caller's responsibility.
			continue
		}
		assert.NoErrorf(t, normhtml.CheckBalanced([]byte(render(test.Markdown, false))),
			"unbalanced output for %s", test.Name)
	}

	adversarial := []string{
		strings.Repeat("> ", 40) + "x\n",
		strings.Repeat("- a\n  - b\n", 40),
		"| a |\n|---|\n| b\nc |\n",
		"**unclosed\n~~also\n`and\n",
		"Term\n: d\n: e\nTerm2\n: f\n",
	}
	for _, markdown := range adversarial {
		assert.NoErrorf(t, normhtml.CheckBalanced([]byte(render(markdown, false))),
			"unbalanced output for %q", markdown)
	}
}

func TestFeedEmpty(t *testing.T) {
	p := new(Parser)
	out := new(Buffer)
	p.Feed(nil, out)
	p.Feed([]byte{}, out)
	assert.Zero(t, out.Len())
	p.Finish(out)
	assert.Zero(t, out.Len())
}

func TestLookaheadDeferral(t *testing.T) {
	p := new(Parser)
	out := new(Buffer)

	// A complete line is held until its lookahead line is complete.
	p.Feed([]byte("| a |\n"), out)
	assert.Zero(t, out.Len(), "pipe line must wait for its separator")

	p.Feed([]byte("|---|\n"), out)
	assert.Contains(t, out.String(), "<thead>", "header must be emitted once the separator arrives")

	p.Feed([]byte("| x |\n"), out)
	p.Finish(out)
	want := "<table><thead><tr><th>a</th></tr></thead><tbody>\n<tr><td>x</td></tr>\n</tbody></table>\n"
	assert.Equal(t, want, out.String())
}

func TestDefinitionTermAcrossFeeds(t *testing.T) {
	p := new(Parser)
	out := new(Buffer)
	p.Feed([]byte("Term\n"), out)
	assert.Zero(t, out.Len(), "a line must wait for lookahead before committing to a paragraph")
	p.Feed([]byte(": d\n"), out)
	p.Finish(out)
	assert.Equal(t, "<dl>\n<dt>Term</dt>\n<dd>d</dd>\n</dl>\n", out.String())
}

func TestParserReuse(t *testing.T) {
	p := new(Parser)
	out := new(Buffer)
	p.Feed([]byte("# a\n"), out)
	p.Finish(out)
	require.Equal(t, "<h1>a</h1>\n", out.String())

	out.Reset()
	p.Feed([]byte("# b\n"), out)
	p.Finish(out)
	require.Equal(t, "<h1>b</h1>\n", out.String())
}

func TestDrainBetweenFeeds(t *testing.T) {
	const markdown = "# Title\n\npara one\n\npara two\n\npara three\n"
	want := render(markdown, false)

	p := new(Parser)
	out := new(Buffer)
	var drained []byte
	for i := 0; i < len(markdown); i += 4 {
		end := i + 4
		if end > len(markdown) {
			end = len(markdown)
		}
		p.Feed([]byte(markdown[i:end]), out)
		drained = append(drained, out.Bytes()...)
		out.Reset()
	}
	p.Finish(out)
	drained = append(drained, out.Bytes()...)
	require.Equal(t, want, string(drained))
}

func TestFinishWithoutFeed(t *testing.T) {
	p := new(Parser)
	out := new(Buffer)
	p.Finish(out)
	assert.Zero(t, out.Len())
}

func BenchmarkFeed(b *testing.B) {
	pattern := "# Title for testing purposes\n" +
		"- Item list with some **bold** and `code` text\n" +
		"Regular paragraph line that should be parsed as p tags correctly.\n"
	doc := []byte(strings.Repeat(pattern, 1024))
	const chunkSize = 64 * 1024
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()

	out := new(Buffer)
	for i := 0; i < b.N; i++ {
		out.Reset()
		p := new(Parser)
		for off := 0; off < len(doc); off += chunkSize {
			end := off + chunkSize
			if end > len(doc) {
				end = len(doc)
			}
			p.Feed(doc[off:end], out)
		}
		p.Finish(out)
	}
}

func BenchmarkParseInline(b *testing.B) {
	fragments := [][]byte{
		[]byte("plain text with no markup at all, just regular words"),
		[]byte("some **bold** and *italic* and `code` and ~~struck~~ text"),
		[]byte("a [link](https://example.com) and https://example.org inline"),
	}
	var total int
	for _, f := range fragments {
		total += len(f)
	}
	b.SetBytes(int64(total))

	p := new(Parser)
	out := new(Buffer)
	for i := 0; i < b.N; i++ {
		out.Reset()
		for _, f := range fragments {
			p.parseInline(f, out)
		}
	}
}
