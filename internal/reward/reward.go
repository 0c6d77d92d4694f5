// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reward implements the threshold-integrator reward accumulator.
package reward

// Accumulator integrates a bound signal against a threshold while enabled,
// accumulating score at a configured rate whenever the signal crosses the
// threshold in the direction given by Factor.
type Accumulator struct {
	Enabled         bool
	Factor          float64 // +1 or -1
	Threshold       float64
	RateOfIncrease  float64 // seconds to accumulate a full point once past threshold
	SampleRate      float64

	score float64
}

func NewAccumulator(sampleRate float64) *Accumulator {
	return &Accumulator{Factor: 1, SampleRate: sampleRate, RateOfIncrease: 1}
}

// Update advances the accumulator by k samples of the bound signal's current
// value. It is a no-op when Enabled is false.
func (a *Accumulator) Update(signal float64, k int) {
	if !a.Enabled || k <= 0 {
		return
	}
	if a.Factor*signal >= a.Threshold {
		rate := a.RateOfIncrease
		if rate <= 0 {
			rate = 1
		}
		fs := a.SampleRate
		if fs <= 0 {
			fs = 1
		}
		a.score += float64(k) / (fs * rate)
	}
}

// Score returns the current cumulative score. It is never reset by block
// transitions; callers that need a per-block delta must snapshot it
// themselves (see Snapshot).
func (a *Accumulator) Score() float64 {
	return a.score
}

// Snapshot captures the current score so a caller can compute a delta across
// a block without resetting the accumulator itself.
func (a *Accumulator) Snapshot() float64 {
	return a.score
}

// Reset zeroes the accumulated score. Only used at experiment start; block
// transitions must not call this (see Score).
func (a *Accumulator) Reset() {
	a.score = 0
}
