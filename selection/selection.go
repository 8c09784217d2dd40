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

// Package selection implements exact order-statistic selection over integer
// sequences: a median-of-medians pivot, a deterministic 3-way quickselect
// built on it, and a median calculator on top of quickselect.
//
// The package-level functions run sequentially. A Selector adds context
// cancellation and can fan the chunk-median step out over several
// goroutines. SelectInPlace and MedianInPlace work on index bounds of a
// single buffer instead of deriving new slices at every level.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/apache/datasketches-seqstats-go/internal"
	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidInput is wrapped by every precondition failure: an empty
	// sequence, or a rank outside [0, len).
	ErrInvalidInput = errors.New("invalid input")
	errEmpty        = fmt.Errorf("%w: empty sequence", ErrInvalidInput)
)

func errRank(k, n int) error {
	return fmt.Errorf("%w: rank %d out of range [0, %d)", ErrInvalidInput, k, n)
}

func checkRank(k, n int) error {
	if n == 0 {
		return errEmpty
	}
	if k < 0 || k >= n {
		return errRank(k, n)
	}
	return nil
}

// PickPivot returns the median-of-medians of seq, an element of seq that
// lies near the middle of its sorted order. Sequences shorter than five are
// sorted in place and their element at len/2 is returned; longer ones are
// split into full chunks of five (a shorter trailing chunk is dropped) whose
// medians are fed back into PickPivot.
func PickPivot[T constraints.Signed](seq []T) (T, error) {
	if len(seq) == 0 {
		return 0, errEmpty
	}
	return pickPivot(seq), nil
}

// QuickSelect returns the element of rank k (zero based) in ascending order.
// seq may be reordered.
func QuickSelect[T constraints.Signed](seq []T, k int) (T, error) {
	if err := checkRank(k, len(seq)); err != nil {
		return 0, err
	}
	return quickselect(seq, k), nil
}

// CalculateMedian returns the median of seq. For an even length the two
// middle elements are summed and halved with integer division, so the result
// truncates toward zero when the sum is odd. seq is not modified.
func CalculateMedian[T constraints.Signed](seq []T) (float64, error) {
	n := len(seq)
	if n == 0 {
		return 0, errEmpty
	}
	if !internal.IsEven(n) {
		return float64(quickselect(slices.Clone(seq), n/2)), nil
	}
	// each selection partitions its own copy
	left := quickselect(slices.Clone(seq), n/2-1)
	right := quickselect(slices.Clone(seq), n/2)
	return float64(truncatedMean(int64(left), int64(right))), nil
}

// truncatedMean is (a + b) / 2 with Go integer division semantics, computed
// without overflowing int64.
func truncatedMean(a, b int64) int64 {
	q := a/2 + b/2
	switch r := a%2 + b%2; {
	case r == 2:
		return q + 1
	case r == -2:
		return q - 1
	case r == 1 && q < 0:
		return q + 1
	case r == -1 && q > 0:
		return q - 1
	}
	return q
}
