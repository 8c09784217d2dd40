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

package selection

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/apache/datasketches-seqstats-go/internal"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultParallelThreshold is the smallest sequence whose chunk medians
	// are computed concurrently.
	DefaultParallelThreshold = 1 << 16

	// MinParallelThreshold is the smallest accepted parallel threshold, one
	// full chunk.
	MinParallelThreshold = internal.ChunkSize
)

// selectorOptions holds optional parameters for Selector construction.
type selectorOptions struct {
	workers           int
	parallelThreshold int
}

// SelectorOption is a functional option for configuring a Selector.
type SelectorOption func(*selectorOptions)

// WithWorkers sets how many goroutines compute chunk medians. One means
// fully sequential.
func WithWorkers(n int) SelectorOption {
	return func(opts *selectorOptions) {
		opts.workers = n
	}
}

// WithParallelThreshold sets the minimum sequence length at which chunk
// medians are fanned out to workers.
func WithParallelThreshold(n int) SelectorOption {
	return func(opts *selectorOptions) {
		opts.parallelThreshold = n
	}
}

// Selector runs the same algorithms as the package-level functions, checks
// ctx between recursion levels, and optionally sorts chunks concurrently.
// Results never depend on the number of workers.
type Selector[T constraints.Signed] struct {
	workers           int
	parallelThreshold int
}

// NewSelector creates a Selector. Without options it uses one worker per CPU
// and DefaultParallelThreshold.
func NewSelector[T constraints.Signed](opts ...SelectorOption) (*Selector[T], error) {
	options := &selectorOptions{
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.workers < 1 {
		return nil, fmt.Errorf("workers must be positive: %d", options.workers)
	}
	if options.parallelThreshold < MinParallelThreshold {
		return nil, fmt.Errorf("parallel threshold must be at least %d: %d", MinParallelThreshold, options.parallelThreshold)
	}
	return &Selector[T]{
		workers:           options.workers,
		parallelThreshold: options.parallelThreshold,
	}, nil
}

// Workers returns the configured worker count.
func (s *Selector[T]) Workers() int {
	return s.workers
}

// PickPivot is the context aware form of PickPivot.
func (s *Selector[T]) PickPivot(ctx context.Context, seq []T) (T, error) {
	if len(seq) == 0 {
		return 0, errEmpty
	}
	return s.pickPivot(ctx, seq)
}

// QuickSelect is the context aware form of QuickSelect. seq may be reordered.
func (s *Selector[T]) QuickSelect(ctx context.Context, seq []T, k int) (T, error) {
	if err := checkRank(k, len(seq)); err != nil {
		return 0, err
	}
	return s.quickselect(ctx, seq, k)
}

// Median is the context aware form of CalculateMedian. seq is not modified.
func (s *Selector[T]) Median(ctx context.Context, seq []T) (float64, error) {
	n := len(seq)
	if n == 0 {
		return 0, errEmpty
	}
	if !internal.IsEven(n) {
		v, err := s.quickselect(ctx, slices.Clone(seq), n/2)
		if err != nil {
			return 0, err
		}
		return float64(v), nil
	}
	left, err := s.quickselect(ctx, slices.Clone(seq), n/2-1)
	if err != nil {
		return 0, err
	}
	right, err := s.quickselect(ctx, slices.Clone(seq), n/2)
	if err != nil {
		return 0, err
	}
	return float64(truncatedMean(int64(left), int64(right))), nil
}

func (s *Selector[T]) pickPivot(ctx context.Context, seq []T) (T, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(seq) < internal.ChunkSize {
		slices.Sort(seq)
		return seq[len(seq)/2], nil
	}
	medians := make([]T, len(seq)/internal.ChunkSize)
	if s.workers > 1 && len(seq) >= s.parallelThreshold {
		if err := s.collectMediansParallel(ctx, seq, medians); err != nil {
			return 0, err
		}
	} else {
		collectMedians(seq, medians)
	}
	return s.pickPivot(ctx, medians)
}

// collectMediansParallel splits the chunks into one contiguous block per
// worker. Each block writes a disjoint range of medians.
func (s *Selector[T]) collectMediansParallel(ctx context.Context, seq []T, medians []T) error {
	numChunks := len(medians)
	perWorker := (numChunks + s.workers - 1) / s.workers
	g, ctx := errgroup.WithContext(ctx)
	for first := 0; first < numChunks; first += perWorker {
		last := min(first+perWorker, numChunks)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := seq[first*internal.ChunkSize : last*internal.ChunkSize]
			collectMedians(src, medians[first:last])
			return nil
		})
	}
	return g.Wait()
}

func (s *Selector[T]) quickselect(ctx context.Context, seq []T, k int) (T, error) {
	for {
		if len(seq) == 1 {
			return seq[0], nil
		}
		pivot, err := s.pickPivot(ctx, seq)
		if err != nil {
			return 0, err
		}
		lows, pivots, highs := partition(seq, pivot)
		switch {
		case k < len(lows):
			seq = lows
		case k < len(lows)+len(pivots):
			return pivots[0], nil
		default:
			k -= len(lows) + len(pivots)
			seq = highs
		}
	}
}
