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

// entity maps a byte to its HTML entity,
// or the empty string for bytes that pass through unchanged.
// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
var entity = [256]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#39;",
}

// inlineSignificant reports which bytes can start an inline construct
// (or need entity escaping).
// 'h' is included so that the scanner stops at potential autolinks.
var inlineSignificant = [256]bool{}

func init() {
	for _, c := range []byte("\\['*`&<>\"_~!$h") {
		inlineSignificant[c] = true
	}
}

// appendEscaped appends src to out,
// replacing each byte that has an entry in [entity] with that entity.
func appendEscaped(out *Buffer, src []byte) {
	verbatimStart := 0
	for i := 0; i < len(src); i++ {
		if e := entity[src[i]]; e != "" {
			out.Append(src[verbatimStart:i])
			out.AppendString(e)
			verbatimStart = i + 1
		}
	}
	out.Append(src[verbatimStart:])
}

// appendEscapedByte appends c to out,
// replaced by its entity if it has one.
func appendEscapedByte(out *Buffer, c byte) {
	if e := entity[c]; e != "" {
		out.AppendString(e)
	} else {
		out.AppendByte(c)
	}
}
