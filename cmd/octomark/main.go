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

// octomark converts Markdown read from stdin to HTML on stdout,
// streaming block by block.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"zombiezen.com/go/octomark"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("octomark: ")
	enableHTML := flag.Bool("html", false, "pass raw HTML tags through verbatim")
	flag.Parse()

	parser := &octomark.Parser{EnableHTML: *enableHTML}
	if err := run(parser, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(parser *octomark.Parser, r io.Reader, w io.Writer) error {
	chunk := make([]byte, 64*1024)
	out := new(octomark.Buffer)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			parser.Feed(chunk[:n], out)
			if err := drain(out, w); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read markdown: %w", err)
		}
	}
	parser.Finish(out)
	return drain(out, w)
}

func drain(out *octomark.Buffer, w io.Writer) error {
	if out.Len() == 0 {
		return nil
	}
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	out.Reset()
	return nil
}
