// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseline_RecordsEntireBlockAndComputesMedian(t *testing.T) {
	ctx := newFakeContext(250)
	b := &Baseline{Common: Common{BlockName: "baseline"}}

	b.OnEnter(ctx)
	for _, v := range []float64{1, 2, 3} {
		ctx.boundChunk = []float64{v}
		b.OnTick(ctx, 1)
	}
	b.OnExit(ctx)

	assert.Equal(t, 2.0, ctx.baselineMedian)
}

func TestBaseline_RecalibratesOnlyWhenConfigured(t *testing.T) {
	ctx := newFakeContext(250)
	called := false
	b := &Baseline{
		Common:      Common{UpdateStatisticsInEnd: true},
		StatsType:   "meanstd",
		Recalibrate: func(recording []float64, statsType string) { called = true },
	}
	b.OnEnter(ctx)
	ctx.boundChunk = []float64{1, 2, 3}
	b.OnTick(ctx, 3)
	b.OnExit(ctx)
	assert.True(t, called)
}

func TestBaseline_SkipsRecalibrateWhenNotConfigured(t *testing.T) {
	ctx := newFakeContext(250)
	called := false
	b := &Baseline{
		Common:      Common{UpdateStatisticsInEnd: false},
		Recalibrate: func(recording []float64, statsType string) { called = true },
	}
	b.OnEnter(ctx)
	ctx.boundChunk = []float64{1}
	b.OnTick(ctx, 1)
	b.OnExit(ctx)
	assert.False(t, called)
}

func TestBaseline_OnEnterResetsRecordingAcrossBlocks(t *testing.T) {
	ctx := newFakeContext(250)
	b := &Baseline{Common: Common{}}
	b.OnEnter(ctx)
	ctx.boundChunk = []float64{100}
	b.OnTick(ctx, 1)
	b.OnEnter(ctx) // re-enter for a new block
	ctx.boundChunk = []float64{1}
	b.OnTick(ctx, 1)
	b.OnExit(ctx)
	assert.Equal(t, 1.0, ctx.baselineMedian, "previous block's recording must not leak into the new one")
}
