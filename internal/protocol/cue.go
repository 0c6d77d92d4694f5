// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// Cue is a Posner-style directional cue: after a uniform(1,2)s delay within
// the block it picks one of {LEFT, RIGHT, CENTER}, displays it for about
// 100ms and then ends the block, and stores the choice on the sequencer to
// bias the following Feedback block's reward_factor.
type Cue struct {
	Common

	delaySamples  int
	displaySamples int
	direction     CueDirection
	shown         bool
}

func (c *Cue) OnEnter(ctx Context) {
	fs := ctx.SampleRate()
	delay := 1.0 + ctx.Rand().Float64()
	c.delaySamples = int(delay * fs)
	c.displaySamples = int(0.1 * fs)
	switch ctx.Rand().Intn(3) {
	case 0:
		c.direction = CueLeft
	case 1:
		c.direction = CueRight
	default:
		c.direction = CueCenter
	}
	c.shown = false
}

func (c *Cue) OnTick(ctx Context, k int) Advisory {
	elapsed := ctx.ElapsedSamples()
	if elapsed < c.delaySamples {
		ctx.RecordCue(0)
		return Continue
	}
	if elapsed < c.delaySamples+c.displaySamples {
		if !c.shown {
			c.shown = true
			ctx.SetCueDirection(c.direction)
		}
		ctx.RecordCue(cueCode(c.direction))
		return Continue
	}
	ctx.RecordCue(0)
	return EndNow
}

func (c *Cue) OnExit(ctx Context) {}

func cueCode(d CueDirection) int {
	switch d {
	case CueLeft:
		return 1
	case CueRight:
		return 2
	case CueCenter:
		return 3
	default:
		return 0
	}
}
