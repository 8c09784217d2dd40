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

package internal

import "cmp"

// Partition3 rearranges arr[lo:hi] around pivot so that it reads
// [< pivot | == pivot | > pivot] and returns the bounds of the middle band:
// arr[lo:lt] < pivot, arr[lt:gt] == pivot, arr[gt:hi] > pivot.
// The relative order inside each band is not preserved.
func Partition3[T cmp.Ordered](arr []T, lo int, hi int, pivot T) (int, int) {
	lt := lo
	i := lo
	gt := hi
	for i < gt {
		switch v := arr[i]; {
		case v < pivot:
			arr[lt], arr[i] = arr[i], arr[lt]
			lt++
			i++
		case v > pivot:
			gt--
			arr[i], arr[gt] = arr[gt], arr[i]
		default:
			i++
		}
	}
	return lt, gt
}

// SortSmall sorts arr ascending with insertion sort. Meant for chunks of a
// handful of elements where the generic sort setup costs more than the sort.
func SortSmall[T cmp.Ordered](arr []T) {
	for i := 1; i < len(arr); i++ {
		for j := i; j > 0 && arr[j] < arr[j-1]; j-- {
			arr[j], arr[j-1] = arr[j-1], arr[j]
		}
	}
}
