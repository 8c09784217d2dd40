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

import (
	"encoding/binary"

	"github.com/twmb/murmur3"
	"golang.org/x/exp/constraints"
)

// MultisetFingerprint hashes every element with murmur3 and combines the
// hashes with a wrapping sum, so the result depends on the multiset of
// values only and not on their order.
func MultisetFingerprint[T constraints.Signed](values []T) uint64 {
	var scratch [8]byte
	var sum uint64
	for _, v := range values {
		binary.LittleEndian.PutUint64(scratch[:], uint64(int64(v)))
		sum += murmur3.SeedSum64(DEFAULT_UPDATE_SEED, scratch[:])
	}
	return sum
}
