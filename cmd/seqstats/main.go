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

// Command seqstats reads a file of whitespace separated integers and reports
// its minimum, maximum, median, mean and longest monotonic runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/apache/datasketches-seqstats-go/ingest"
	"github.com/apache/datasketches-seqstats-go/selection"
	"github.com/apache/datasketches-seqstats-go/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	logger := cfg.newLogger(stderr)

	loadOpts := []ingest.Option{
		ingest.WithLogger(logger),
		ingest.WithObjectStore(cfg.objectStore),
	}
	if cfg.strict {
		loadOpts = append(loadOpts, ingest.WithStrict())
	}
	dataset, err := ingest.Load(ctx, cfg.input, loadOpts...)
	switch {
	case errors.Is(err, ingest.ErrEmpty):
		fmt.Fprintln(stderr, "The file is empty. Use another file.")
		return 1
	case err != nil:
		fmt.Fprintf(stderr, "Error: could not read the input: %v\n", err)
		return 1
	}

	selector, err := selection.NewSelector[int64](
		selection.WithWorkers(cfg.workers),
		selection.WithParallelThreshold(cfg.parallelThreshold),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	summary, err := stats.Compute(ctx, dataset.Values,
		stats.WithSelector(selector),
		stats.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.InfoContext(ctx, "statistics ready",
		"count", summary.Count,
		"fingerprint", summary.Fingerprint,
		"digest", dataset.Digest,
		"workers", selector.Workers(),
	)

	if cfg.format == "json" {
		err = summary.WriteJSON(stdout)
	} else {
		err = summary.WriteText(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: writing report: %v\n", err)
		return 1
	}
	return 0
}

