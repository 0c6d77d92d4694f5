// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filters

import "math"

// biquadBandpass is a single second-order (RBJ-style) resonant bandpass
// section, the same difference-equation shape as a Butterworth-by-sections
// cascade. Cascading n of these approximates an order-2n Butterworth bandpass.
type biquadBandpass struct {
	alpha, beta, gamma float64
	xn1, xn2, yn1, yn2 float64
}

func newBiquadBandpass(sampleRate, centerFreq, bandwidth float64) *biquadBandpass {
	b := &biquadBandpass{}
	b.update(sampleRate, centerFreq, bandwidth)
	return b
}

func (b *biquadBandpass) update(sampleRate, centerFreq, bandwidth float64) {
	tanValue := math.Tan((math.Pi * bandwidth) / sampleRate)
	cosValue := math.Cos((2.0 * math.Pi * centerFreq) / sampleRate)
	b.beta = (1.0 - tanValue) / (2.0 * (1.0 + tanValue))
	b.gamma = (0.5 + b.beta) * cosValue
	b.alpha = (0.5 - b.beta) / 2.0
}

func (b *biquadBandpass) step(input float64) float64 {
	output := 2.0 * ((b.alpha * (input - b.xn2)) + (b.gamma * b.yn1) - (b.beta * b.yn2))
	b.xn2 = b.xn1
	b.xn1 = input
	b.yn2 = b.yn1
	b.yn1 = output
	return output
}

func (b *biquadBandpass) reset() {
	b.xn1, b.xn2, b.yn1, b.yn2 = 0, 0, 0, 0
}

// ButterworthBandpass cascades order/2 biquad sections (rounded down, at least
// one) to approximate a higher-order Butterworth bandpass response.
type ButterworthBandpass struct {
	sections []*biquadBandpass
}

func NewButterworthBandpass(fs, lo, hi float64, order int) *ButterworthBandpass {
	n := order / 2
	if n < 1 {
		n = 1
	}
	center := (lo + hi) / 2
	bandwidth := hi - lo
	if bandwidth <= 0 {
		bandwidth = fs / 4
	}
	bb := &ButterworthBandpass{sections: make([]*biquadBandpass, n)}
	for i := range bb.sections {
		bb.sections[i] = newBiquadBandpass(fs, center, bandwidth)
	}
	return bb
}

func (bb *ButterworthBandpass) Apply(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	for _, s := range bb.sections {
		for i, v := range out {
			out[i] = s.step(v)
		}
	}
	return out
}

func (bb *ButterworthBandpass) Reset() {
	for _, s := range bb.sections {
		s.reset()
	}
}

// OnePoleLowpass is a minimal causal low-pass used to turn a rectified signal
// into a smooth envelope (the causal stand-in for a zero-phase Hilbert
// envelope).
type OnePoleLowpass struct {
	a   float64
	y   float64
	set bool
}

// NewOnePoleLowpass builds a one-pole filter with the given -3dB cutoff.
func NewOnePoleLowpass(fs, cutoff float64) *OnePoleLowpass {
	if cutoff <= 0 {
		cutoff = fs / 100
	}
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / fs
	a := dt / (rc + dt)
	return &OnePoleLowpass{a: a}
}

func (lp *OnePoleLowpass) Apply(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		if !lp.set {
			lp.y = x
			lp.set = true
		} else {
			lp.y = lp.y + lp.a*(x-lp.y)
		}
		out[i] = lp.y
	}
	return out
}

func (lp *OnePoleLowpass) Reset() {
	lp.y = 0
	lp.set = false
}
