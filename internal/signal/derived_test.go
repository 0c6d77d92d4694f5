// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emer/nfbengine/internal/filters"
)

type passthroughEstimator struct{ resetCalled bool }

func (p *passthroughEstimator) Apply(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
func (p *passthroughEstimator) Reset() { p.resetCalled = true }

func TestDerivedSignal_ProjectsChunkThroughSpatialVector(t *testing.T) {
	d := NewDerivedSignal(0, "left", filters.Band{Low: 8, High: 12}, []float64{1, 0}, NewRejectionStack(2), &passthroughEstimator{})
	chunk := [][]float64{
		{5, 100},
		{7, 200},
	}
	out := d.Update(chunk)
	assert.Equal(t, []float64{5, 7}, out)
	assert.Equal(t, 7.0, d.Latest())
}

func TestDerivedSignal_EmptyChunkReturnsEmpty(t *testing.T) {
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), &passthroughEstimator{})
	out := d.Update(nil)
	assert.Len(t, out, 0)
	assert.Equal(t, 0.0, d.Latest(), "Latest should be 0 before any tick has published a value")
}

func TestDerivedSignal_ScalingAppliesMeanStd(t *testing.T) {
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), &passthroughEstimator{})
	d.ScalingEnabled = true
	d.Mean = 2
	d.Std = 4
	out := d.Update([][]float64{{10}})
	assert.InDelta(t, (10.0-2)/4, out[0], 1e-9)
}

func TestDerivedSignal_RecalibrateMeanStd(t *testing.T) {
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), &passthroughEstimator{})
	d.Recalibrate([]float64{1, 2, 3, 4, 5}, StatsMeanStd)
	assert.True(t, d.ScalingEnabled)
	assert.InDelta(t, 3.0, d.Mean, 1e-9)
	assert.Greater(t, d.Std, 0.0)
}

func TestDerivedSignal_RecalibrateMaxUsesAbsPeak(t *testing.T) {
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), &passthroughEstimator{})
	d.Recalibrate([]float64{-1, 2, -9, 4}, StatsMax)
	assert.True(t, d.ScalingEnabled)
	assert.Equal(t, 0.0, d.Mean)
	assert.Equal(t, 9.0, d.Std)
}

func TestDerivedSignal_RecalibrateMaxAllZerosFallsBackToOne(t *testing.T) {
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), &passthroughEstimator{})
	d.Recalibrate([]float64{0, 0, 0}, StatsMax)
	assert.Equal(t, 1.0, d.Std)
}

func TestDerivedSignal_PostSmoothAveragesTrailingWindow(t *testing.T) {
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), &passthroughEstimator{})
	d.PostSmoothWindow = 4
	d.Update([][]float64{{4}, {4}, {4}, {4}})
	out := d.Update([][]float64{{0}, {0}})
	for _, v := range out {
		assert.InDelta(t, 2.0, v, 1e-9, "post-smooth should average the ring buffer after only 2 of 4 slots were overwritten with 0")
	}
}

func TestDerivedSignal_InvalidateProjectionRebuildsCache(t *testing.T) {
	rej := NewRejectionStack(1)
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{2}, rej, &passthroughEstimator{})
	d.Update([][]float64{{1}})
	rej.Push([][]float64{{10}})
	d.InvalidateProjection()
	out := d.Update([][]float64{{1}})
	assert.Equal(t, 20.0, out[0])
}

func TestDerivedSignal_ResetClearsEstimatorAndCurrent(t *testing.T) {
	est := &passthroughEstimator{}
	d := NewDerivedSignal(0, "s", filters.Band{Low: 8, High: 12}, []float64{1}, NewRejectionStack(1), est)
	d.Update([][]float64{{1}})
	d.Reset()
	assert.True(t, est.resetCalled)
	assert.Equal(t, 0.0, d.Latest())
}
