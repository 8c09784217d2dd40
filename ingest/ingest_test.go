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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
)

func withOpener(o objectOpener) Option {
	return func(opts *readOptions) {
		opts.opener = o
	}
}

func TestReadInts(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []int64
	}{
		{name: "newline separated", input: "3\n1\n2\n", expected: []int64{3, 1, 2}},
		{name: "mixed whitespace", input: " 5\t-3  8\r\n1\n\n9 2", expected: []int64{5, -3, 8, 1, 9, 2}},
		{name: "explicit sign", input: "+7 -0 0", expected: []int64{7, 0, 0}},
		{name: "stops at first non integer", input: "1 2 x 3", expected: []int64{1, 2}},
		{name: "keeps integer glued to garbage", input: "1 2 12abc 5", expected: []int64{1, 2, 12}},
		{name: "keeps integer part of a decimal", input: "4 3.5 6", expected: []int64{4, 3}},
		{name: "signed prefix", input: "-7x 8", expected: []int64{-7}},
		{name: "bare sign", input: "1 - 2", expected: []int64{1}},
		{name: "overflowing prefix dropped", input: "1 99999999999999999999x", expected: []int64{1}},
		{name: "empty", input: "", expected: nil},
		{name: "whitespace only", input: " \n\t ", expected: nil},
		{name: "int64 bounds", input: "9223372036854775807 -9223372036854775808", expected: []int64{9223372036854775807, -9223372036854775808}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := ReadInts(strings.NewReader(tc.input))
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, values)
		})
	}
}

func TestReadIntsStrict(t *testing.T) {
	_, err := ReadInts(strings.NewReader("1 2 3.5 4"), WithStrict())
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), `token 3 "3.5"`)

	_, err = ReadInts(strings.NewReader("99999999999999999999"), WithStrict())
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadInts(strings.NewReader("1 12abc"), WithStrict())
	assert.ErrorIs(t, err, ErrMalformed)

	values, err := ReadInts(strings.NewReader("1 2"), WithStrict())
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, values)
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(p, content, 0o600))
	return p
}

func compress(t *testing.T, compression Compression, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch compression {
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		assert.NoError(t, err)
		w = zw
	case CompressionLZ4:
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("unexpected compression %s", compression)
	}
	_, err := w.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	content := []byte("5 3 8\n1 9 2\n")
	want := []int64{5, 3, 8, 1, 9, 2}

	t.Run("Plain File", func(t *testing.T) {
		p := writeFile(t, "numbers.txt", content)
		dataset, err := Load(context.Background(), p)
		assert.NoError(t, err)
		assert.Equal(t, want, dataset.Values)
		assert.Equal(t, CompressionNone, dataset.Compression)
		assert.Equal(t, xxhash.Sum64(content), dataset.Digest)
		assert.Equal(t, p, dataset.Source)
	})

	for _, tc := range []struct {
		name        string
		file        string
		compression Compression
	}{
		{name: "Gzip", file: "numbers.txt.gz", compression: CompressionGzip},
		{name: "Zstd", file: "numbers.txt.zst", compression: CompressionZstd},
		{name: "LZ4", file: "numbers.txt.lz4", compression: CompressionLZ4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := writeFile(t, tc.file, compress(t, tc.compression, content))
			dataset, err := Load(context.Background(), p)
			assert.NoError(t, err)
			assert.Equal(t, want, dataset.Values)
			assert.Equal(t, tc.compression, dataset.Compression)
			assert.Equal(t, xxhash.Sum64(content), dataset.Digest)
		})
	}

	t.Run("Digest Covers Unread Tail", func(t *testing.T) {
		tail := []byte("1 2 end 3 4")
		p := writeFile(t, "tail.txt", tail)
		dataset, err := Load(context.Background(), p)
		assert.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, dataset.Values)
		assert.Equal(t, xxhash.Sum64(tail), dataset.Digest)
	})

	t.Run("Empty File", func(t *testing.T) {
		p := writeFile(t, "empty.txt", nil)
		_, err := Load(context.Background(), p)
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Strict Malformed", func(t *testing.T) {
		p := writeFile(t, "bad.txt", []byte("1 two 3"))
		_, err := Load(context.Background(), p, WithStrict())
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Corrupt Gzip", func(t *testing.T) {
		p := writeFile(t, "bad.gz", []byte("not gzip at all"))
		_, err := Load(context.Background(), p)
		assert.Error(t, err)
	})
}

func TestLoadObject(t *testing.T) {
	content := []byte("42 7 -1")
	var gotBucket, gotKey string
	opener := func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
		gotBucket, gotKey = bucket, key
		if key == "missing.txt" {
			return nil, ErrNotFound
		}
		return io.NopCloser(bytes.NewReader(content)), nil
	}

	dataset, err := Load(context.Background(), "s3://data/runs/numbers.txt", withOpener(opener))
	assert.NoError(t, err)
	assert.Equal(t, "data", gotBucket)
	assert.Equal(t, "runs/numbers.txt", gotKey)
	assert.Equal(t, []int64{42, 7, -1}, dataset.Values)

	_, err = Load(context.Background(), "s3://data/missing.txt", withOpener(opener))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadObjectWithoutEndpoint(t *testing.T) {
	_, err := Load(context.Background(), "s3://data/numbers.txt")
	assert.ErrorContains(t, err, "no object store endpoint")
}

func TestParseObjectURL(t *testing.T) {
	bucket, key, err := parseObjectURL("s3://bucket/a/b.txt.gz")
	assert.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "a/b.txt.gz", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := parseObjectURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionGzip, DetectCompression("a.txt.GZ"))
	assert.Equal(t, CompressionZstd, DetectCompression("s3://b/a.zstd"))
	assert.Equal(t, CompressionLZ4, DetectCompression("a.lz4"))
	assert.Equal(t, CompressionNone, DetectCompression("a.txt"))
	assert.Equal(t, CompressionNone, DetectCompression(Stdin))
}
