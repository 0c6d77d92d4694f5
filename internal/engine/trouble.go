// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "math"

// TroubleDetector flags channels whose short-window standard deviation
// spikes well above their running baseline, a cheap proxy for electrode pop
// or lead-off artifacts. It checks every 2 seconds of ingested data against
// the trailing 1-second window, and updates its baseline with an EMA(0.5) on
// every check regardless of whether trouble was flagged.
type TroubleDetector struct {
	fs            float64
	checkSamples  int
	windowSamples int

	ring         [][]float64 // per channel ring buffer, length windowSamples
	pos          int
	sinceCheck   int
	baseline     []float64
	haveBaseline bool

	OnTrouble func(channel int, newStd, baseline float64)
}

func NewTroubleDetector(fs float64, numChannels int) *TroubleDetector {
	windowSamples := int(fs)
	if windowSamples < 1 {
		windowSamples = 1
	}
	ring := make([][]float64, numChannels)
	for c := range ring {
		ring[c] = make([]float64, windowSamples)
	}
	return &TroubleDetector{
		fs:            fs,
		checkSamples:  int(fs * 2),
		windowSamples: windowSamples,
		ring:          ring,
		baseline:      make([]float64, numChannels),
	}
}

// Observe feeds a (k×C) chunk in and runs the 2-second check when due.
func (t *TroubleDetector) Observe(chunk [][]float64) {
	for _, row := range chunk {
		for c := range t.ring {
			if c < len(row) {
				t.ring[c][t.pos] = row[c]
			}
		}
		t.pos++
		if t.pos >= t.windowSamples {
			t.pos = 0
		}
		t.sinceCheck++
	}
	if t.sinceCheck >= t.checkSamples {
		t.sinceCheck = 0
		t.check()
	}
}

func (t *TroubleDetector) check() {
	for c := range t.ring {
		newStd := stddev(t.ring[c])
		if !t.haveBaseline {
			t.baseline[c] = newStd
			continue
		}
		if t.baseline[c] > 0 && newStd > 7*t.baseline[c] && t.OnTrouble != nil {
			t.OnTrouble(c, newStd, t.baseline[c])
		}
		t.baseline[c] = 0.5*newStd + 0.5*t.baseline[c]
	}
	t.haveBaseline = true
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))
	var sumSq float64
	for _, v := range xs {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}
