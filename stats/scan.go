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

package stats

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var (
	ErrEmpty = errors.New("operation is undefined for an empty sequence")
)

// MinMax returns the smallest and largest element of seq.
func MinMax[T constraints.Signed](seq []T) (T, T, error) {
	if len(seq) == 0 {
		return 0, 0, ErrEmpty
	}
	minValue, maxValue := seq[0], seq[0]
	for _, v := range seq {
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}
	return minValue, maxValue, nil
}

// Mean accumulates in float64, so very long sequences of large values lose
// low order digits rather than overflowing.
func Mean[T constraints.Signed](seq []T) (float64, error) {
	if len(seq) == 0 {
		return 0, ErrEmpty
	}
	sum := 0.0
	for _, v := range seq {
		sum += float64(v)
	}
	return sum / float64(len(seq)), nil
}

// LongestIncreasingRun returns the longest contiguous strictly increasing
// run of seq. The earliest run wins a tie. The result aliases seq.
func LongestIncreasingRun[T constraints.Signed](seq []T) []T {
	return longestRun(seq, func(prev, cur T) bool { return cur > prev })
}

// LongestDecreasingRun is LongestIncreasingRun for strictly decreasing runs.
func LongestDecreasingRun[T constraints.Signed](seq []T) []T {
	return longestRun(seq, func(prev, cur T) bool { return cur < prev })
}

func longestRun[T constraints.Signed](seq []T, continues func(prev, cur T) bool) []T {
	if len(seq) == 0 {
		return nil
	}
	bestStart, bestLen := 0, 1
	start := 0
	for i := 1; i < len(seq); i++ {
		if continues(seq[i-1], seq[i]) {
			continue
		}
		if i-start > bestLen {
			bestStart, bestLen = start, i-start
		}
		start = i
	}
	if len(seq)-start > bestLen {
		bestStart, bestLen = start, len(seq)-start
	}
	return seq[bestStart : bestStart+bestLen : bestStart+bestLen]
}
