// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// EyeCalibration walks a fixed 10-position grid over the block's duration,
// writing the current target position into the probe channel using codes
// 10..19 (one code per grid cell).
type EyeCalibration struct {
	Common

	positions      int
	samplesPerStep int
}

func (e *EyeCalibration) OnEnter(ctx Context) {
	e.positions = 10
	total := int(e.Duration * ctx.SampleRate())
	e.samplesPerStep = total / e.positions
	if e.samplesPerStep < 1 {
		e.samplesPerStep = 1
	}
}

func (e *EyeCalibration) OnTick(ctx Context, k int) Advisory {
	elapsed := ctx.ElapsedSamples()
	step := elapsed / e.samplesPerStep
	if step >= e.positions {
		step = e.positions - 1
	}
	ctx.RecordProbe(10 + step)
	return Continue
}

func (e *EyeCalibration) OnExit(ctx Context) {}
