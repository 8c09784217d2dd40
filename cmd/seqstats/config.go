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

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/apache/datasketches-seqstats-go/ingest"
	"github.com/apache/datasketches-seqstats-go/internal/logging"
	"github.com/apache/datasketches-seqstats-go/selection"
)

const (
	defaultInput     = "10m.txt"
	defaultFormat    = "text"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

type config struct {
	input             string
	format            string
	workers           int
	parallelThreshold int
	strict            bool
	logLevel          slog.Level
	logFormat         string
	objectStore       ingest.ObjectStoreConfig
}

// loadConfig parses command line flags, then reads object store settings
// from the SEQSTATS_S3_* environment variables.
func loadConfig(args []string, getenv func(string) string, output io.Writer) (*config, error) {
	var (
		cfg      config
		logLevel string
	)

	fs := flag.NewFlagSet("seqstats", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.input, "input", defaultInput,
		"input file, - for stdin, or s3://bucket/key (.gz, .zst and .lz4 are decompressed)")
	fs.StringVar(&cfg.format, "format", defaultFormat, "report format: text or json")
	fs.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0),
		"goroutines computing chunk medians")
	fs.IntVar(&cfg.parallelThreshold, "parallel-threshold", selection.DefaultParallelThreshold,
		"smallest sequence whose chunk medians are computed concurrently")
	fs.BoolVar(&cfg.strict, "strict", false,
		"fail on a non-integer token instead of stopping there")
	fs.StringVar(&logLevel, "log-level", defaultLogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: seqstats [options]\n")
		fmt.Fprintf(fs.Output(), "\tobject store access is read from SEQSTATS_S3_ENDPOINT, "+
			"SEQSTATS_S3_ACCESS_KEY, SEQSTATS_S3_SECRET_KEY, SEQSTATS_S3_REGION and SEQSTATS_S3_SECURE\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.format != "text" && cfg.format != "json" {
		return nil, fmt.Errorf("unknown format %q", cfg.format)
	}
	if cfg.logFormat != "text" && cfg.logFormat != "json" {
		return nil, fmt.Errorf("unknown log format %q", cfg.logFormat)
	}
	if cfg.workers < 1 {
		return nil, fmt.Errorf("workers must be positive: %d", cfg.workers)
	}
	if cfg.parallelThreshold < selection.MinParallelThreshold {
		return nil, fmt.Errorf("parallel threshold must be at least %d: %d",
			selection.MinParallelThreshold, cfg.parallelThreshold)
	}
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.logLevel = level

	cfg.objectStore = ingest.ObjectStoreConfig{
		Endpoint:  getenv("SEQSTATS_S3_ENDPOINT"),
		AccessKey: getenv("SEQSTATS_S3_ACCESS_KEY"),
		SecretKey: getenv("SEQSTATS_S3_SECRET_KEY"),
		Region:    getenv("SEQSTATS_S3_REGION"),
		Secure:    true,
	}
	if s := getenv("SEQSTATS_S3_SECURE"); s != "" {
		secure, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("SEQSTATS_S3_SECURE: %w", err)
		}
		cfg.objectStore.Secure = secure
	}
	return &cfg, nil
}

func (c *config) newLogger(w io.Writer) *logging.Logger {
	if c.logFormat == "json" {
		return logging.NewJSONLogger(w, c.logLevel)
	}
	return logging.NewTextLogger(w, c.logLevel)
}
