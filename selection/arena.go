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
	"github.com/apache/datasketches-seqstats-go/internal"
	"golang.org/x/exp/constraints"
)

// arena runs quickselect on index bounds of one buffer. Chunk medians of
// every pivot search share a single scratch slice.
type arena[T constraints.Signed] struct {
	buf     []T
	scratch []T
}

func newArena[T constraints.Signed](buf []T) *arena[T] {
	return &arena[T]{
		buf:     buf,
		scratch: make([]T, len(buf)/internal.ChunkSize),
	}
}

// selectRank returns the element of rank k within buf.
func (a *arena[T]) selectRank(k int) T {
	lo, hi := 0, len(a.buf)
	for hi-lo > 1 {
		pivot := a.pivot(lo, hi)
		lt, gt := internal.Partition3(a.buf, lo, hi, pivot)
		switch {
		case k < lt-lo:
			hi = lt
		case k < gt-lo:
			return pivot
		default:
			k -= gt - lo
			lo = gt
		}
	}
	return a.buf[lo]
}

// pivot is the median-of-medians of buf[lo:hi], chosen exactly as pickPivot
// would choose it for that range.
func (a *arena[T]) pivot(lo, hi int) T {
	n := hi - lo
	if n < internal.ChunkSize {
		internal.SortSmall(a.buf[lo:hi])
		return a.buf[lo+n/2]
	}
	m := collectMedians(a.buf[lo:hi], a.scratch)
	for m >= internal.ChunkSize {
		m = collectMedians(a.scratch[:m], a.scratch)
	}
	internal.SortSmall(a.scratch[:m])
	return a.scratch[m/2]
}

// SelectInPlace returns the element of rank k of buf without allocating
// derived sequences. buf is reordered.
func SelectInPlace[T constraints.Signed](buf []T, k int) (T, error) {
	if err := checkRank(k, len(buf)); err != nil {
		return 0, err
	}
	return newArena(buf).selectRank(k), nil
}

// MedianInPlace is CalculateMedian on a caller owned buffer. buf is
// reordered. For an even length the second selection restarts from the full
// bounds rather than reusing the partitions left by the first.
func MedianInPlace[T constraints.Signed](buf []T) (float64, error) {
	n := len(buf)
	if n == 0 {
		return 0, errEmpty
	}
	a := newArena(buf)
	if !internal.IsEven(n) {
		return float64(a.selectRank(n / 2)), nil
	}
	left := a.selectRank(n/2 - 1)
	right := a.selectRank(n / 2)
	return float64(truncatedMean(int64(left), int64(right))), nil
}
