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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/apache/datasketches-seqstats-go/selection"
	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

// fixedClock returns start on the first call and start+step afterwards.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	calls := 0
	return func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(step)
	}
}

func TestCompute(t *testing.T) {
	values := []int64{5, 3, 8, 1, 9, 2}
	original := append([]int64(nil), values...)

	summary, err := Compute(context.Background(), values,
		WithClock(fixedClock(time.Unix(0, 0), 1500*time.Millisecond)))
	assert.NoError(t, err)

	assert.Equal(t, 6, summary.Count)
	assert.Equal(t, int64(1), summary.Minimum)
	assert.Equal(t, int64(9), summary.Maximum)
	assert.Equal(t, float64(4), summary.Median)
	assert.InDelta(t, 28.0/6.0, summary.Mean, 1e-12)
	assert.Equal(t, []int64{3, 8}, summary.LongestIncreasing)
	assert.Equal(t, []int64{5, 3}, summary.LongestDecreasing)
	assert.Equal(t, 1500*time.Millisecond, summary.Elapsed)
	assert.NotZero(t, summary.Fingerprint)
	assert.Equal(t, original, values)
}

func TestComputeWithParallelSelector(t *testing.T) {
	values := make([]int64, 10000)
	for i := range values {
		values[i] = int64((i * 7919) % 10007)
	}
	s, err := selection.NewSelector[int64](selection.WithWorkers(4), selection.WithParallelThreshold(5))
	assert.NoError(t, err)

	parallel, err := Compute(context.Background(), values, WithSelector(s))
	assert.NoError(t, err)
	sequential, err := Compute(context.Background(), values)
	assert.NoError(t, err)

	assert.Equal(t, sequential.Median, parallel.Median)
	assert.Equal(t, sequential.Fingerprint, parallel.Fingerprint)
}

func TestComputeEmpty(t *testing.T) {
	_, err := Compute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compute(ctx, []int64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteText(t *testing.T) {
	summary := Summary{
		Count:             6,
		Minimum:           1,
		Maximum:           9,
		Median:            4,
		Mean:              28.0 / 6.0,
		LongestIncreasing: []int64{3, 8},
		LongestDecreasing: []int64{5, 3},
		Elapsed:           250 * time.Millisecond,
	}
	var buf bytes.Buffer
	assert.NoError(t, summary.WriteText(&buf))

	want := "Maximum: 9\n" +
		"Minimum: 1\n" +
		"Median: 4\n" +
		"Mean: 4.66667\n" +
		"Longest inc sequence: 2\n" +
		"3\n" +
		"8\n" +
		"Longest dec sequence: 2\n" +
		"5\n" +
		"3\n" +
		"Time taken: 0.25 seconds\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	summary := Summary{
		Count:             1,
		Minimum:           42,
		Maximum:           42,
		Median:            42,
		Mean:              42,
		LongestIncreasing: []int64{42},
		Elapsed:           time.Second,
		Fingerprint:       0xabc,
	}
	var buf bytes.Buffer
	assert.NoError(t, summary.WriteJSON(&buf))

	var decoded map[string]any
	assert.NoError(t, gojson.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(42), decoded["median"])
	assert.Equal(t, []any{float64(42)}, decoded["longestIncreasing"])
	assert.Equal(t, []any{}, decoded["longestDecreasing"])
	assert.Equal(t, float64(1), decoded["elapsedSeconds"])
	assert.Equal(t, "0000000000000abc", decoded["fingerprint"])
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "4", formatFloat(4))
	assert.Equal(t, "-2.5", formatFloat(-2.5))
	assert.Equal(t, "1.23457e+06", formatFloat(1234567))
}
