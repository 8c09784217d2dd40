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

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Stdin is the source name that reads standard input.
const Stdin = "-"

// Dataset is a fully loaded input.
type Dataset struct {
	Source      string
	Compression Compression
	Values      []int64
	// Digest is xxhash64 of the decompressed input bytes.
	Digest uint64
}

type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// DetectCompression picks the codec from the file extension.
func DetectCompression(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Load reads every integer of source into memory. source is a local path,
// Stdin, or an s3://bucket/key URL (which requires WithObjectStore).
func Load(ctx context.Context, source string, opts ...Option) (*Dataset, error) {
	options := newReadOptions(opts)

	dataset, err := load(ctx, source, options)
	if err != nil {
		options.logger.LogLoad(ctx, source, 0, 0, err)
		return nil, err
	}
	options.logger.LogLoad(ctx, source, len(dataset.Values), dataset.Digest, nil)
	return dataset, nil
}

func load(ctx context.Context, source string, options *readOptions) (*Dataset, error) {
	raw, err := open(ctx, source, options)
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	compression := DetectCompression(source)
	r, err := decompress(raw, compression)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	defer r.Close()

	digest := xxhash.New()
	tee := io.TeeReader(r, digest)
	values, err := readInts(ctx, tee, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	// the digest covers the whole input even when reading stopped early
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, source)
	}
	return &Dataset{
		Source:      source,
		Compression: compression,
		Values:      values,
		Digest:      digest.Sum64(),
	}, nil
}

func open(ctx context.Context, source string, options *readOptions) (io.ReadCloser, error) {
	if source == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	if strings.HasPrefix(source, objectScheme) {
		return openObject(ctx, source, options)
	}
	f, err := os.Open(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, source)
		}
		return nil, err
	}
	return f, nil
}

func decompress(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
