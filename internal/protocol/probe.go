// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// Probe flashes a dot at a configured or randomized side partway through the
// block. Location is recorded every tick as 0 (none), 1 (RIGHT) or 2 (LEFT);
// visible with probability 0.8, matching the spec's documented weighting.
type Probe struct {
	Common
	Side string // "LEFT" | "RIGHT" | "RAND"

	onsetSamples int
	location     ProbeLocation
	visible      bool
}

func (p *Probe) OnEnter(ctx Context) {
	onset := 1.0 + ctx.Rand().Float64()
	p.onsetSamples = int(onset * ctx.SampleRate())

	switch p.Side {
	case "LEFT":
		p.location = ProbeLeft
	case "RIGHT":
		p.location = ProbeRight
	default:
		if ctx.Rand().Intn(2) == 0 {
			p.location = ProbeLeft
		} else {
			p.location = ProbeRight
		}
	}
	p.visible = ctx.Rand().Float64() < 0.8
}

func (p *Probe) OnTick(ctx Context, k int) Advisory {
	elapsed := ctx.ElapsedSamples()
	if elapsed < p.onsetSamples || !p.visible {
		ctx.RecordProbe(int(ProbeNone))
		return Continue
	}
	ctx.RecordProbe(probeCode(p.location))
	return Continue
}

func (p *Probe) OnExit(ctx Context) {}

func probeCode(l ProbeLocation) int {
	switch l {
	case ProbeRight:
		return 1
	case ProbeLeft:
		return 2
	default:
		return 0
	}
}
