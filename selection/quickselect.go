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
	"slices"

	"github.com/apache/datasketches-seqstats-go/internal"
	"golang.org/x/exp/constraints"
)

func pickPivot[T constraints.Signed](seq []T) T {
	if len(seq) < internal.ChunkSize {
		slices.Sort(seq)
		return seq[len(seq)/2]
	}
	medians := make([]T, len(seq)/internal.ChunkSize)
	collectMedians(seq, medians)
	return pickPivot(medians)
}

// collectMedians writes the median of every full chunk of src into dst and
// returns how many were written. Chunks are sorted on a local copy, so src is
// left untouched. dst may alias the front of src.
func collectMedians[T constraints.Signed](src []T, dst []T) int {
	num := len(src) / internal.ChunkSize
	var chunk [internal.ChunkSize]T
	for i := 0; i < num; i++ {
		copy(chunk[:], src[i*internal.ChunkSize:(i+1)*internal.ChunkSize])
		internal.SortSmall(chunk[:])
		dst[i] = chunk[internal.ChunkSize/2]
	}
	return num
}

func quickselect[T constraints.Signed](seq []T, k int) T {
	if len(seq) == 1 {
		return seq[0]
	}
	pivot := pickPivot(seq)
	lows, pivots, highs := partition(seq, pivot)
	switch {
	case k < len(lows):
		return quickselect(lows, k)
	case k < len(lows)+len(pivots):
		return pivots[0]
	default:
		return quickselect(highs, k-len(lows)-len(pivots))
	}
}

// partition splits seq into fresh slices of elements below, equal to and
// above pivot, preserving their relative order.
func partition[T constraints.Signed](seq []T, pivot T) ([]T, []T, []T) {
	var lows, pivots, highs []T
	for _, v := range seq {
		switch {
		case v < pivot:
			lows = append(lows, v)
		case v > pivot:
			highs = append(highs, v)
		default:
			pivots = append(pivots, v)
		}
	}
	return lows, pivots, highs
}
