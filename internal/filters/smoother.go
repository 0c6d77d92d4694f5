// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filters

import "gonum.org/v1/gonum/mat"

// ExponentialSmoother implements y[t] = alpha*x[t] + (1-alpha)*y[t-1]. It only
// starts blending once more than 10 samples have been accumulated; the first
// 11 samples pass through raw, matching the warm-up behavior of the
// envelope detectors it smooths.
type ExponentialSmoother struct {
	Alpha float64

	prev    float64
	nAccum  int
}

func NewExponentialSmoother(alpha float64) *ExponentialSmoother {
	return &ExponentialSmoother{Alpha: alpha}
}

func (es *ExponentialSmoother) Apply(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		var y float64
		if es.nAccum > 10 {
			y = es.Alpha*x + (1-es.Alpha)*es.prev
		} else {
			y = x
		}
		es.prev = y
		es.nAccum++
		out[i] = y
	}
	return out
}

func (es *ExponentialSmoother) Reset() {
	es.prev = 0
	es.nAccum = 0
}

// SGSmoother is a causal Savitzky-Golay smoother: each output sample is the
// fitted value of a degree-Order polynomial least-squares fit over the
// trailing Window samples, evaluated at the most recent point. Coefficients
// are solved once (they only depend on Window and Order) and then applied as
// a FIR convolution over the ring buffer of past raw samples.
type SGSmoother struct {
	Window int
	Order  int

	coeffs []float64
	buf    []float64
	pos    int
}

func NewSGSmoother(window, order int) *SGSmoother {
	if window < 1 {
		window = 1
	}
	if order >= window {
		order = window - 1
	}
	sg := &SGSmoother{Window: window, Order: order}
	sg.coeffs = sgEndpointCoeffs(window, order)
	sg.buf = make([]float64, window)
	return sg
}

// sgEndpointCoeffs solves for the convolution weights that reproduce a
// degree-order polynomial least-squares fit evaluated at the last of `window`
// equally-spaced points (x = 0..window-1, evaluated at x = window-1).
func sgEndpointCoeffs(window, order int) []float64 {
	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i)
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}
	var ata mat.Dense
	ata.Mul(a.T(), a)
	var ataInv mat.Dense
	if err := ataInv.Inverse(&ata); err != nil {
		// singular or ill-conditioned design matrix: fall back to a plain average
		w := make([]float64, window)
		for i := range w {
			w[i] = 1.0 / float64(window)
		}
		return w
	}
	var pinv mat.Dense
	pinv.Mul(&ataInv, a.T())

	xLast := float64(window - 1)
	basis := make([]float64, order+1)
	p := 1.0
	for j := 0; j <= order; j++ {
		basis[j] = p
		p *= xLast
	}

	coeffs := make([]float64, window)
	for i := 0; i < window; i++ {
		var sum float64
		for j := 0; j <= order; j++ {
			sum += basis[j] * pinv.At(j, i)
		}
		coeffs[i] = sum
	}
	return coeffs
}

func (sg *SGSmoother) Apply(in []float64) []float64 {
	out := make([]float64, len(in))
	n := len(sg.buf)
	for i, x := range in {
		sg.buf[sg.pos] = x
		sg.pos++
		if sg.pos >= n {
			sg.pos = 0
		}
		// buf[pos] is now the oldest sample; walk forward from there to get
		// chronological (oldest-to-newest) order for the convolution.
		var sum float64
		for k := 0; k < n; k++ {
			sum += sg.coeffs[k] * sg.buf[(sg.pos+k)%n]
		}
		out[i] = sum
	}
	return out
}

func (sg *SGSmoother) Reset() {
	for i := range sg.buf {
		sg.buf[i] = 0
	}
	sg.pos = 0
}
