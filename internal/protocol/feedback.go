// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// Feedback is the reward-driven block. On entry it derives reward_factor
// from the preceding Cue's direction, resolves the active threshold (fixed,
// AAI-mean, or baseline-corrected), and schedules a randomized Posner
// stimulus. Once the stimulus fires, the block holds past its nominal
// duration until the participant responds or a global maximum elapses.
type Feedback struct {
	Common

	ThresholdMode       string // "fixed" | "aai_mean" | "baseline_corrected"
	ConfiguredThreshold float64
	BaselineDelta       float64
	ReactionBufferS     float64
	MaxHoldS            float64

	posnerStimSamples int
	stimFired         bool
}

func (f *Feedback) OnEnter(ctx Context) {
	dir := ctx.CueDirection()
	factor := -1.0
	if dir == CueLeft || dir == CueCenter {
		factor = 1.0
	}
	ctx.Reward().Factor = factor

	var threshold float64
	switch f.ThresholdMode {
	case "aai_mean":
		threshold = f.ConfiguredThreshold
	case "baseline_corrected":
		threshold = ctx.BaselineMedian() + f.BaselineDelta
	default:
		threshold = f.RewardThreshold
	}
	ctx.Reward().Threshold = threshold
	ctx.Reward().Enabled = true

	buffer := f.ReactionBufferS
	if buffer <= 0 || buffer > f.Duration {
		buffer = f.Duration / 2
	}
	stimTime := (f.Duration - buffer) + ctx.Rand().Float64()*2
	f.posnerStimSamples = int(stimTime * ctx.SampleRate())
	f.stimFired = false
}

func (f *Feedback) OnTick(ctx Context, k int) Advisory {
	elapsed := ctx.ElapsedSamples()

	if !f.stimFired && elapsed >= f.posnerStimSamples {
		f.stimFired = true
		ctx.RecordPosnerStim(true)
		ctx.RecordPosnerStimTime(float64(elapsed) / ctx.SampleRate())
	} else {
		ctx.RecordPosnerStim(false)
	}

	if !f.stimFired {
		return Continue
	}

	if ctx.RespondedThisTick() {
		ctx.RecordResponse(1)
		return EndNow
	}
	ctx.RecordResponse(0)

	if f.MaxHoldS > 0 && float64(elapsed) >= f.MaxHoldS*ctx.SampleRate() {
		return EndNow
	}
	return Hold
}

func (f *Feedback) OnExit(ctx Context) {
	ctx.Reward().Enabled = false
}
