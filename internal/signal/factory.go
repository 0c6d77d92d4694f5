// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

import (
	"fmt"

	"github.com/emer/nfbengine/internal/filters"
)

// EstimatorSpec mirrors the temporal-processing fields of a settings
// DerivedSignal entry (sTemporalType, sTemporalFilterType,
// sTemporalSmootherType and their parameters) closely enough to build a
// filters.Filter chain from it without depending on the config package.
type EstimatorSpec struct {
	TemporalType    string // "envdetector" | "filter" | "identity"
	FilterType      string // "fft" | "complexdem" | "butter" | "cfir"
	SmootherType    string // "exp" | "savgol"
	FFTWindowSize   int
	SmoothingFactor float64
	ButterOrder     int
	CFIRTaps        int
	SGWindow        int
	SGOrder         int
	DelayMs         int
	SampleRate      float64
}

// BuildEstimator constructs the filters.Filter chain described by spec for
// the given band, wrapping it in a DelayFilter when DelayMs > 0.
func BuildEstimator(band filters.Band, spec EstimatorSpec) (filters.Filter, error) {
	var smoother filters.Filter
	switch spec.SmootherType {
	case "", "exp":
		alpha := spec.SmoothingFactor
		if alpha <= 0 {
			alpha = 0.1
		}
		smoother = filters.NewExponentialSmoother(alpha)
	case "savgol":
		window := spec.SGWindow
		if window < 1 {
			window = 1
		}
		smoother = filters.NewSGSmoother(window, spec.SGOrder)
	default:
		return nil, fmt.Errorf("unknown smoother type %q", spec.SmootherType)
	}

	// envdetector variants fold the smoother into the detector itself (it is
	// their final internal stage); the other variants apply it as a separate
	// trailing stage.
	var chain filters.Filter
	switch spec.TemporalType {
	case "identity":
		chain = filters.NewFilterSequence(filters.IdentityFilter{}, smoother)
	case "filter":
		chain = filters.NewFilterSequence(filters.NewScalarButterFilter(band, spec.SampleRate, orDefault(spec.ButterOrder, 4)), smoother)
	case "", "envdetector":
		switch spec.FilterType {
		case "", "fft":
			n := spec.FFTWindowSize
			if n < 2 {
				n = 128
			}
			chain = filters.NewFFTBandEnvelopeDetector(band, spec.SampleRate, smoother, n)
		case "complexdem":
			chain = filters.NewComplexDemodulationBandEnvelopeDetector(band, spec.SampleRate, smoother)
		case "butter":
			chain = filters.NewButterBandEnvelopeDetector(band, spec.SampleRate, smoother, orDefault(spec.ButterOrder, 4))
		case "cfir":
			taps := spec.CFIRTaps
			if taps < 1 {
				taps = 64
			}
			chain = filters.NewCFIRBandEnvelopeDetector(band, spec.SampleRate, smoother, taps)
		default:
			return nil, fmt.Errorf("unknown temporal filter type %q", spec.FilterType)
		}
	default:
		return nil, fmt.Errorf("unknown temporal type %q", spec.TemporalType)
	}

	if spec.DelayMs > 0 && spec.SampleRate > 0 {
		delaySamples := int(spec.SampleRate * float64(spec.DelayMs) / 1000.0)
		return filters.NewFilterSequence(filters.NewDelayFilter(delaySamples), chain), nil
	}
	return chain, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
