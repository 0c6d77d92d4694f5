// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filters

import (
	"math"

	"gonum.org/v1/gonum/fourier"
)

// Band is a closed frequency interval in Hz, low <= high.
type Band struct {
	Low, High float64
}

func (b Band) Center() float64 { return (b.Low + b.High) / 2 }
func (b Band) Width() float64  { return b.High - b.Low }

// EnvelopeDetector is a Filter specialized to band-limited amplitude
// estimation; it is exposed separately from Filter only for documentation
// purposes, the method set is identical.
type EnvelopeDetector interface {
	Filter
}

// FFTBandEnvelopeDetector maintains a ring buffer of n_samples raw values.
// Each call mirrors the buffer to length 2*n_samples, applies an asymmetric
// Gaussian taper, takes its FFT, zeroes bins outside [low, high] and returns
// the mean absolute amplitude across all 2*n_samples bins of the spectrum as the
// chunk's envelope value, broadcast across all k input samples and then
// smoothed. Latency is n_samples/(2*fs), since a full buffer of history
// informs every estimate.
type FFTBandEnvelopeDetector struct {
	band     Band
	fs       float64
	smoother Filter
	buffer   []float64
	window   []float64
	fft      *fourier.CmplxFFT
	binFreq  float64
}

func NewFFTBandEnvelopeDetector(band Band, fs float64, smoother Filter, nSamples int) *FFTBandEnvelopeDetector {
	if nSamples < 2 {
		nSamples = 2
	}
	d := &FFTBandEnvelopeDetector{
		band:     band,
		fs:       fs,
		smoother: smoother,
		buffer:   make([]float64, nSamples),
	}
	d.window = asymmetricGaussianWindow(2 * nSamples)
	d.fft = fourier.NewCmplxFFT(2 * nSamples)
	d.binFreq = fs / float64(2*nSamples)
	return d
}

// asymmetricGaussianWindow builds a window of length n, peaking at n/2 with
// boundary value ~1e-4, matching the taper used to suppress edge
// discontinuities before the FFT.
func asymmetricGaussianWindow(n int) []float64 {
	p := n / 2
	const eps = 1e-4
	const power = 2.0
	leftC := -math.Log(eps) / math.Pow(float64(p), power)
	var rightC float64
	if n-1-p > 0 {
		rightC = -math.Log(eps) / math.Pow(float64(n-1-p), power)
	}
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		d := math.Abs(float64(i - p))
		if i < p {
			w[i] = math.Exp(-leftC * math.Pow(d, power))
		} else {
			w[i] = math.Exp(-rightC * math.Pow(d, power))
		}
	}
	return w
}

func (d *FFTBandEnvelopeDetector) pushChunk(chunk []float64) {
	n := len(d.buffer)
	k := len(chunk)
	if k == 0 {
		return
	}
	if k >= n {
		copy(d.buffer, chunk[k-n:])
		return
	}
	copy(d.buffer, d.buffer[k:])
	copy(d.buffer[n-k:], chunk)
}

func (d *FFTBandEnvelopeDetector) amplitude() float64 {
	n := len(d.buffer)
	mirrored := make([]complex128, 2*n)
	for i := 0; i < n; i++ {
		mirrored[i] = complex(d.buffer[i]*d.window[i], 0)
		mirrored[n+i] = complex(d.buffer[n-1-i]*d.window[n+i], 0)
	}
	spectrum := d.fft.Coefficients(nil, mirrored)

	var sum float64
	for k, c := range spectrum {
		freq := float64(k) * d.binFreq
		if k > n {
			freq = float64(k-2*n) * d.binFreq
		}
		freq = math.Abs(freq)
		if freq < d.band.Low || freq > d.band.High {
			continue
		}
		sum += math.Hypot(real(c), imag(c))
	}
	return sum / float64(len(spectrum))
}

func (d *FFTBandEnvelopeDetector) Apply(in []float64) []float64 {
	if len(in) == 0 {
		return []float64{}
	}
	d.pushChunk(in)
	amp := d.amplitude()
	out := make([]float64, len(in))
	for i := range out {
		out[i] = amp
	}
	return d.smoother.Apply(out)
}

func (d *FFTBandEnvelopeDetector) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.smoother.Reset()
}

// ComplexDemodulationBandEnvelopeDetector multiplies the input by a complex
// exponential at the band center, low-passes the result to half the band
// width, and returns the magnitude -- a low-latency, per-sample estimator.
type ComplexDemodulationBandEnvelopeDetector struct {
	band      Band
	fs        float64
	smoother  Filter
	phase     float64
	lpReal    *OnePoleLowpass
	lpImag    *OnePoleLowpass
}

func NewComplexDemodulationBandEnvelopeDetector(band Band, fs float64, smoother Filter) *ComplexDemodulationBandEnvelopeDetector {
	cutoff := band.Width() / 2
	return &ComplexDemodulationBandEnvelopeDetector{
		band:     band,
		fs:       fs,
		smoother: smoother,
		lpReal:   NewOnePoleLowpass(fs, cutoff),
		lpImag:   NewOnePoleLowpass(fs, cutoff),
	}
}

func (d *ComplexDemodulationBandEnvelopeDetector) Apply(in []float64) []float64 {
	if len(in) == 0 {
		return []float64{}
	}
	re := make([]float64, len(in))
	im := make([]float64, len(in))
	omega := 2 * math.Pi * d.band.Center() / d.fs
	for i, x := range in {
		re[i] = x * math.Cos(d.phase)
		im[i] = -x * math.Sin(d.phase)
		d.phase += omega
		if d.phase > 2*math.Pi {
			d.phase -= 2 * math.Pi
		}
	}
	re = d.lpReal.Apply(re)
	im = d.lpImag.Apply(im)
	out := make([]float64, len(in))
	for i := range out {
		out[i] = 2 * math.Hypot(re[i], im[i])
	}
	return d.smoother.Apply(out)
}

func (d *ComplexDemodulationBandEnvelopeDetector) Reset() {
	d.phase = 0
	d.lpReal.Reset()
	d.lpImag.Reset()
	d.smoother.Reset()
}

// ButterBandEnvelopeDetector bandpasses with a cascaded-biquad Butterworth
// approximation, full-wave rectifies, and low-passes -- a causal stand-in for
// a Hilbert-transform envelope -- before smoothing.
type ButterBandEnvelopeDetector struct {
	bandpass *ButterworthBandpass
	lowpass  *OnePoleLowpass
	smoother Filter
}

func NewButterBandEnvelopeDetector(band Band, fs float64, smoother Filter, order int) *ButterBandEnvelopeDetector {
	return &ButterBandEnvelopeDetector{
		bandpass: NewButterworthBandpass(fs, band.Low, band.High, order),
		lowpass:  NewOnePoleLowpass(fs, band.Width()/2),
		smoother: smoother,
	}
}

func (d *ButterBandEnvelopeDetector) Apply(in []float64) []float64 {
	if len(in) == 0 {
		return []float64{}
	}
	filtered := d.bandpass.Apply(in)
	rectified := make([]float64, len(filtered))
	for i, v := range filtered {
		rectified[i] = math.Abs(v)
	}
	enveloped := d.lowpass.Apply(rectified)
	return d.smoother.Apply(enveloped)
}

func (d *ButterBandEnvelopeDetector) Reset() {
	d.bandpass.Reset()
	d.lowpass.Reset()
	d.smoother.Reset()
}

// CFIRBandEnvelopeDetector approximates the complex demodulator with a finite
// impulse response: the taps are a Hamming-windowed complex exponential at
// the band center, convolved causally with the incoming real samples.
type CFIRBandEnvelopeDetector struct {
	fs       float64
	taps     []complex128
	history  []float64
	pos      int
	smoother Filter
}

func NewCFIRBandEnvelopeDetector(band Band, fs float64, smoother Filter, nTaps int) *CFIRBandEnvelopeDetector {
	if nTaps < 1 {
		nTaps = 1
	}
	taps := make([]complex128, nTaps)
	omega := 2 * math.Pi * band.Center() / fs
	for n := 0; n < nTaps; n++ {
		hamming := 0.54 - 0.46*math.Cos(2*math.Pi*float64(n)/float64(nTaps-1+1))
		phase := omega * float64(n)
		taps[n] = complex(hamming*math.Cos(-phase), hamming*math.Sin(-phase))
	}
	return &CFIRBandEnvelopeDetector{
		fs:       fs,
		taps:     taps,
		history:  make([]float64, nTaps),
		smoother: smoother,
	}
}

func (d *CFIRBandEnvelopeDetector) Apply(in []float64) []float64 {
	if len(in) == 0 {
		return []float64{}
	}
	n := len(d.taps)
	out := make([]float64, len(in))
	for i, x := range in {
		d.history[d.pos] = x
		var acc complex128
		for t := 0; t < n; t++ {
			idx := (d.pos - t + n) % n
			acc += d.taps[t] * complex(d.history[idx], 0)
		}
		d.pos++
		if d.pos >= n {
			d.pos = 0
		}
		out[i] = 2 * math.Hypot(real(acc), imag(acc)) / float64(n)
	}
	return d.smoother.Apply(out)
}

func (d *CFIRBandEnvelopeDetector) Reset() {
	for i := range d.history {
		d.history[i] = 0
	}
	d.pos = 0
	d.smoother.Reset()
}

// ScalarButterFilter bandpasses a scalar stream without envelope extraction.
type ScalarButterFilter struct {
	*ButterworthBandpass
}

func NewScalarButterFilter(band Band, fs float64, order int) *ScalarButterFilter {
	return &ScalarButterFilter{ButterworthBandpass: NewButterworthBandpass(fs, band.Low, band.High, order)}
}
