// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedSignalSpec_DefaultsFillZeroFields(t *testing.T) {
	s := &DerivedSignalSpec{}
	s.Defaults()
	assert.Equal(t, "envdetector", s.TemporalType)
	assert.Equal(t, "fft", s.TemporalFilterType)
	assert.Equal(t, "exp", s.TemporalSmootherType)
	assert.Equal(t, 128, s.FFTWindowSize)
	assert.Equal(t, 0.1, s.SmoothingFactor)
	assert.Equal(t, 4, s.TemporalFilterButterOrder)
}

func TestDerivedSignalSpec_DefaultsPreserveExplicitValues(t *testing.T) {
	s := &DerivedSignalSpec{TemporalType: "filter", FFTWindowSize: 256}
	s.Defaults()
	assert.Equal(t, "filter", s.TemporalType)
	assert.Equal(t, 256, s.FFTWindowSize)
}

func TestGlobalFlags_Defaults(t *testing.T) {
	g := &GlobalFlags{}
	g.Defaults()
	assert.Equal(t, 2.0, g.RewardPeriodS)
	assert.Equal(t, "experiment", g.ExperimentName)
}

func TestSettings_DefaultsCascadesToEverySignal(t *testing.T) {
	s := &Settings{Signals: []DerivedSignalSpec{{}, {TemporalType: "identity"}}}
	s.Defaults()
	assert.Equal(t, "envdetector", s.Signals[0].TemporalType)
	assert.Equal(t, "identity", s.Signals[1].TemporalType)
	assert.Equal(t, "experiment", s.Global.ExperimentName)
}
