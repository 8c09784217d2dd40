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

// Package stats computes the descriptive statistics of an in-memory integer
// sequence: minimum, maximum, mean, exact median and the longest strictly
// increasing and decreasing runs, and renders them as a report.
package stats

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/apache/datasketches-seqstats-go/internal"
	"github.com/apache/datasketches-seqstats-go/internal/logging"
	"github.com/apache/datasketches-seqstats-go/selection"
	gojson "github.com/goccy/go-json"
)

// Summary is the result of one statistics run.
type Summary struct {
	Count             int
	Minimum           int64
	Maximum           int64
	Median            float64
	Mean              float64
	LongestIncreasing []int64
	LongestDecreasing []int64
	// Elapsed covers the statistics only, not reading the input.
	Elapsed time.Duration
	// Fingerprint identifies the multiset of values regardless of order.
	Fingerprint uint64
}

// computeOptions holds optional parameters for Compute.
type computeOptions struct {
	selector *selection.Selector[int64]
	logger   *logging.Logger
	now      func() time.Time
}

// Option is a functional option for configuring Compute.
type Option func(*computeOptions)

// WithSelector sets the selector used for the median. The default is a
// sequential selector.
func WithSelector(s *selection.Selector[int64]) Option {
	return func(opts *computeOptions) {
		opts.selector = s
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(opts *computeOptions) {
		opts.logger = l
	}
}

// WithClock replaces time.Now for measuring Elapsed.
func WithClock(now func() time.Time) Option {
	return func(opts *computeOptions) {
		opts.now = now
	}
}

// Compute runs every statistic over values. values is not modified.
func Compute(ctx context.Context, values []int64, opts ...Option) (Summary, error) {
	options := &computeOptions{
		logger: logging.NoopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.selector == nil {
		s, err := selection.NewSelector[int64](selection.WithWorkers(1))
		if err != nil {
			return Summary{}, err
		}
		options.selector = s
	}

	start := options.now()
	summary, err := compute(ctx, values, options.selector)
	if err != nil {
		options.logger.LogSummary(ctx, len(values), 0, err)
		return Summary{}, err
	}
	summary.Elapsed = options.now().Sub(start)
	summary.Fingerprint = internal.MultisetFingerprint(values)

	options.logger.LogSummary(ctx, summary.Count, summary.Elapsed, nil)
	return summary, nil
}

func compute(ctx context.Context, values []int64, selector *selection.Selector[int64]) (Summary, error) {
	minValue, maxValue, err := MinMax(values)
	if err != nil {
		return Summary{}, err
	}
	median, err := selector.Median(ctx, values)
	if err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}
	mean, err := Mean(values)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Count:             len(values),
		Minimum:           minValue,
		Maximum:           maxValue,
		Median:            median,
		Mean:              mean,
		LongestIncreasing: LongestIncreasingRun(values),
		LongestDecreasing: LongestDecreasingRun(values),
	}, nil
}

// formatFloat prints like a default iostream: six significant digits,
// shortest of fixed and exponent notation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WriteText writes the line oriented report, runs printed one element per
// line.
func (s Summary) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Maximum: %d\n", s.Maximum)
	fmt.Fprintf(bw, "Minimum: %d\n", s.Minimum)
	fmt.Fprintf(bw, "Median: %s\n", formatFloat(s.Median))
	fmt.Fprintf(bw, "Mean: %s\n", formatFloat(s.Mean))
	writeRun(bw, "Longest inc sequence", s.LongestIncreasing)
	writeRun(bw, "Longest dec sequence", s.LongestDecreasing)
	fmt.Fprintf(bw, "Time taken: %s seconds\n", formatFloat(s.Elapsed.Seconds()))
	return bw.Flush()
}

func writeRun(bw *bufio.Writer, title string, run []int64) {
	fmt.Fprintf(bw, "%s: %d\n", title, len(run))
	var scratch []byte
	for _, v := range run {
		scratch = strconv.AppendInt(scratch[:0], v, 10)
		scratch = append(scratch, '\n')
		bw.Write(scratch)
	}
}

type jsonSummary struct {
	Count             int     `json:"count"`
	Minimum           int64   `json:"minimum"`
	Maximum           int64   `json:"maximum"`
	Median            float64 `json:"median"`
	Mean              float64 `json:"mean"`
	LongestIncreasing []int64 `json:"longestIncreasing"`
	LongestDecreasing []int64 `json:"longestDecreasing"`
	ElapsedSeconds    float64 `json:"elapsedSeconds"`
	Fingerprint       string  `json:"fingerprint"`
}

// WriteJSON writes the summary as a single JSON object.
func (s Summary) WriteJSON(w io.Writer) error {
	return gojson.NewEncoder(w).Encode(jsonSummary{
		Count:             s.Count,
		Minimum:           s.Minimum,
		Maximum:           s.Maximum,
		Median:            s.Median,
		Mean:              s.Mean,
		LongestIncreasing: nonNil(s.LongestIncreasing),
		LongestDecreasing: nonNil(s.LongestDecreasing),
		ElapsedSeconds:    s.Elapsed.Seconds(),
		Fingerprint:       fmt.Sprintf("%016x", s.Fingerprint),
	})
}

func nonNil(run []int64) []int64 {
	if run == nil {
		return []int64{}
	}
	return run
}
