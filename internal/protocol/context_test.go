// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"math/rand"

	"github.com/emer/nfbengine/internal/reward"
)

// fakeContext is a minimal, in-memory Context for testing Protocol variants
// without standing up a full engine.Experiment.
type fakeContext struct {
	rng          *rand.Rand
	sampleRate   float64
	elapsed      int
	blockSamples int

	cueDir            CueDirection
	baselineMedian    float64
	priorBlockPercent float64

	boundValue float64
	boundChunk []float64
	signals    map[string]float64

	rewardAcc *reward.Accumulator

	responded bool
	chosen    int

	probes       []int
	cues         []int
	posnerStims  []bool
	posnerTimes  []float64
	responses    []int
	choices      []int
	answers      []int
	marks        []int
	logs         []string
}

func newFakeContext(fs float64) *fakeContext {
	return &fakeContext{
		rng:        rand.New(rand.NewSource(1)),
		sampleRate: fs,
		rewardAcc:  reward.NewAccumulator(fs),
		signals:    map[string]float64{},
		chosen:     -1,
	}
}

func (f *fakeContext) Rand() *rand.Rand    { return f.rng }
func (f *fakeContext) SampleRate() float64 { return f.sampleRate }
func (f *fakeContext) ElapsedSamples() int { return f.elapsed }
func (f *fakeContext) BlockSamples() int   { return f.blockSamples }

func (f *fakeContext) SetCueDirection(d CueDirection) { f.cueDir = d }
func (f *fakeContext) CueDirection() CueDirection     { return f.cueDir }
func (f *fakeContext) SetBaselineMedian(v float64)    { f.baselineMedian = v }
func (f *fakeContext) BaselineMedian() float64        { return f.baselineMedian }
func (f *fakeContext) SetPriorBlockPercent(v float64) { f.priorBlockPercent = v }
func (f *fakeContext) PriorBlockPercent() float64     { return f.priorBlockPercent }

func (f *fakeContext) BoundSignalValue() float64  { return f.boundValue }
func (f *fakeContext) SignalValue(name string) float64 { return f.signals[name] }
func (f *fakeContext) BoundSignalChunk() []float64 { return f.boundChunk }

func (f *fakeContext) RecordProbe(code int)           { f.probes = append(f.probes, code) }
func (f *fakeContext) RecordCue(code int)             { f.cues = append(f.cues, code) }
func (f *fakeContext) RecordPosnerStimTime(t float64) { f.posnerTimes = append(f.posnerTimes, t) }
func (f *fakeContext) RecordPosnerStim(active bool)   { f.posnerStims = append(f.posnerStims, active) }
func (f *fakeContext) RecordResponse(code int)        { f.responses = append(f.responses, code) }
func (f *fakeContext) RecordChoice(code int)          { f.choices = append(f.choices, code) }
func (f *fakeContext) RecordAnswer(code int)          { f.answers = append(f.answers, code) }
func (f *fakeContext) RecordMark(code int)            { f.marks = append(f.marks, code) }

func (f *fakeContext) Reward() *reward.Accumulator { return f.rewardAcc }
func (f *fakeContext) Log(msg string, kv ...any) {
	f.logs = append(f.logs, msg)
}

func (f *fakeContext) RespondedThisTick() bool { return f.responded }
func (f *fakeContext) ChosenThisTick() int     { return f.chosen }
