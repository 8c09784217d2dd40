/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ingest loads whitespace separated integers from local files,
// standard input or S3 compatible object storage, decompressing gzip, zstd
// and lz4 inputs on the fly.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/datasketches-seqstats-go/internal/logging"
)

var (
	ErrEmpty     = errors.New("the input holds no integers")
	ErrMalformed = errors.New("malformed integer")
	ErrNotFound  = errors.New("input not found")
)

const maxTokenSize = 1 << 20

// readOptions holds optional parameters shared by ReadInts and Load.
type readOptions struct {
	strict      bool
	logger      *logging.Logger
	objectStore *ObjectStoreConfig
	opener      objectOpener
}

// Option is a functional option for configuring ReadInts and Load.
type Option func(*readOptions)

// WithStrict makes a token that is not an integer an error. By default
// reading stops quietly at such a token, keeping what was read before it.
func WithStrict() Option {
	return func(opts *readOptions) {
		opts.strict = true
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(opts *readOptions) {
		opts.logger = l
	}
}

// WithObjectStore configures access to s3:// sources.
func WithObjectStore(cfg ObjectStoreConfig) Option {
	return func(opts *readOptions) {
		opts.objectStore = &cfg
	}
}

func newReadOptions(opts []Option) *readOptions {
	options := &readOptions{
		logger: logging.NoopLogger(),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ReadInts reads whitespace separated base 10 integers from r. An empty
// result is not an error here; Load reports it as ErrEmpty.
//
// Without WithStrict a token that is not an integer ends the input, but a
// leading integer glued to it is still kept: "12abc" yields 12, and "3.5"
// yields 3. A prefix that overflows int64 is dropped.
func ReadInts(r io.Reader, opts ...Option) ([]int64, error) {
	return readInts(context.Background(), r, newReadOptions(opts))
}

func readInts(ctx context.Context, r io.Reader, options *readOptions) ([]int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)

	var values []int64
	for scanner.Scan() {
		tok := scanner.Text()
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			if options.strict {
				return nil, fmt.Errorf("%w: token %d %q", ErrMalformed, len(values)+1, tok)
			}
			if prefix, ok := leadingInt(tok); ok {
				values = append(values, prefix)
			}
			options.logger.WarnContext(ctx, "stopped at non-integer token",
				"token", tok,
				"ordinal", len(values)+1,
			)
			return values, nil
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// leadingInt parses an optional sign followed by the longest run of digits
// at the start of tok.
func leadingInt(tok string) (int64, bool) {
	end := 0
	if end < len(tok) && (tok[end] == '+' || tok[end] == '-') {
		end++
	}
	digits := end
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.ParseInt(tok[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
