// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbe_RecordsNoneBeforeOnset(t *testing.T) {
	ctx := newFakeContext(250)
	p := &Probe{Common: Common{}, Side: "LEFT"}
	p.OnEnter(ctx)

	ctx.elapsed = 0
	p.OnTick(ctx, 1)
	assert.Equal(t, int(ProbeNone), ctx.probes[len(ctx.probes)-1])
}

func TestProbe_FixedSideRecordsAfterOnsetWhenVisible(t *testing.T) {
	ctx := newFakeContext(250)
	p := &Probe{Common: Common{}, Side: "RIGHT"}
	p.OnEnter(ctx)
	p.visible = true // pin visibility to make the assertion deterministic

	ctx.elapsed = p.onsetSamples
	p.OnTick(ctx, 1)
	assert.Equal(t, 1, ctx.probes[len(ctx.probes)-1], "RIGHT should encode as probe code 1")
}

func TestProbe_LeftSideEncodesAsTwo(t *testing.T) {
	ctx := newFakeContext(250)
	p := &Probe{Common: Common{}, Side: "LEFT"}
	p.OnEnter(ctx)
	p.visible = true

	ctx.elapsed = p.onsetSamples
	p.OnTick(ctx, 1)
	assert.Equal(t, 2, ctx.probes[len(ctx.probes)-1])
}

func TestProbe_InvisibleNeverFires(t *testing.T) {
	ctx := newFakeContext(250)
	p := &Probe{Common: Common{}, Side: "LEFT"}
	p.OnEnter(ctx)
	p.visible = false

	ctx.elapsed = p.onsetSamples + 100
	p.OnTick(ctx, 1)
	assert.Equal(t, int(ProbeNone), ctx.probes[len(ctx.probes)-1])
}
