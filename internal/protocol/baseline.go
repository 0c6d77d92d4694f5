// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import "sort"

// Baseline accumulates the bound signal's raw values for the whole block and,
// when UpdateStatisticsInEnd is set, drives recalibration of the bound
// DerivedSignal from that recording. It also records the block's median
// value for later threshold biasing (Feedback and FixationCross read it).
type Baseline struct {
	Common
	StatsType   string
	Recalibrate func(recording []float64, statsType string)

	recording []float64
}

func (b *Baseline) OnEnter(ctx Context) {
	b.recording = b.recording[:0]
}

func (b *Baseline) OnTick(ctx Context, k int) Advisory {
	b.recording = append(b.recording, ctx.BoundSignalChunk()...)
	return Continue
}

func (b *Baseline) OnExit(ctx Context) {
	if b.UpdateStatisticsInEnd && b.Recalibrate != nil {
		b.Recalibrate(b.recording, b.StatsType)
	}
	ctx.SetBaselineMedian(median(b.recording))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
