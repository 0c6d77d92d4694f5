// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/emer/nfbengine/internal/filters"
)

// StatsType selects the recalibration rule applied at recalibrate().
type StatsType string

const (
	StatsMeanStd StatsType = "meanstd"
	StatsMax     StatsType = "max"
)

// DerivedSignal is the per-signal pipeline: spatial projection through the
// rejection stack, a band-envelope (or plain-filter) estimator, optional
// standardization, and an optional whole-chunk post-smoothing average.
type DerivedSignal struct {
	Index int
	Name  string

	Band       filters.Band
	Spatial    []float64
	Rejections *RejectionStack
	Estimator  filters.Filter

	ScalingEnabled bool
	Mean, Std      float64

	PostSmoothWindow int

	proj      []float64
	projDirty bool

	postBuf []float64
	postPos int

	current []float64
}

func NewDerivedSignal(index int, name string, band filters.Band, spatial []float64, rejections *RejectionStack, estimator filters.Filter) *DerivedSignal {
	return &DerivedSignal{
		Index:      index,
		Name:       name,
		Band:       band,
		Spatial:    spatial,
		Rejections: rejections,
		Estimator:  estimator,
		projDirty:  true,
	}
}

// InvalidateProjection forces the cached spatial×rejection product to be
// recomputed on the next Update; call after mutating Spatial or Rejections
// between blocks.
func (d *DerivedSignal) InvalidateProjection() {
	d.projDirty = true
}

func (d *DerivedSignal) projection() []float64 {
	if d.projDirty || d.proj == nil {
		if d.Rejections != nil {
			d.proj = d.Rejections.Apply(d.Spatial)
		} else {
			d.proj = append([]float64(nil), d.Spatial...)
		}
		d.projDirty = false
	}
	return d.proj
}

// Update runs one tick of the pipeline over a (k×C) chunk and returns the
// k-sample published value, which is also retained as Current().
func (d *DerivedSignal) Update(chunk [][]float64) []float64 {
	k := len(chunk)
	if k == 0 {
		d.current = []float64{}
		return d.current
	}
	w := d.projection()
	projected := make([]float64, k)
	for i, row := range chunk {
		var sum float64
		for c := range w {
			if c >= len(row) {
				break
			}
			sum += row[c] * w[c]
		}
		projected[i] = sum
	}

	env := d.Estimator.Apply(projected)

	if d.ScalingEnabled && d.Std > 0 {
		scaled := make([]float64, len(env))
		for i, v := range env {
			scaled[i] = (v - d.Mean) / d.Std
		}
		env = scaled
	}

	if d.PostSmoothWindow > 0 {
		env = d.postSmooth(env)
	}

	d.current = env
	return env
}

// postSmooth replaces every sample of the chunk with the mean of the
// trailing PostSmoothWindow samples, the original's whole-chunk averaging
// quirk rather than a true per-sample moving average.
func (d *DerivedSignal) postSmooth(env []float64) []float64 {
	if d.postBuf == nil {
		d.postBuf = make([]float64, d.PostSmoothWindow)
	}
	for _, v := range env {
		d.postBuf[d.postPos] = v
		d.postPos++
		if d.postPos >= len(d.postBuf) {
			d.postPos = 0
		}
	}
	var sum float64
	for _, v := range d.postBuf {
		sum += v
	}
	mean := sum / float64(len(d.postBuf))
	out := make([]float64, len(env))
	for i := range out {
		out[i] = mean
	}
	return out
}

// Current returns the most recently published chunk of values.
func (d *DerivedSignal) Current() []float64 {
	return d.current
}

// Latest returns the single most recent published sample, or 0 before any
// tick has run.
func (d *DerivedSignal) Latest() float64 {
	if len(d.current) == 0 {
		return 0
	}
	return d.current[len(d.current)-1]
}

// Recalibrate recomputes Mean/Std from a block's recording and unconditionally
// enables scaling, matching the original's enable_scaling() call at the end
// of update_statistics.
func (d *DerivedSignal) Recalibrate(recording []float64, statsType StatsType) {
	switch statsType {
	case StatsMax:
		maxAbs := 0.0
		for _, v := range recording {
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
			}
		}
		if maxAbs == 0 {
			maxAbs = 1
		}
		d.Mean = 0
		d.Std = maxAbs
	default:
		mean, std := stat.MeanStdDev(recording, nil)
		d.Mean = mean
		d.Std = std
	}
	d.ScalingEnabled = true
}

func (d *DerivedSignal) Reset() {
	d.Estimator.Reset()
	d.postBuf = nil
	d.postPos = 0
	d.current = nil
}
