// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"log/slog"
	"math/rand"

	"github.com/emer/nfbengine/internal/protocol"
	"github.com/emer/nfbengine/internal/reward"
	"github.com/emer/nfbengine/internal/signal"
)

// Recorder is the persistence sink the sequencer writes into. It is
// implemented by internal/store's grouped binary container; a no-op or
// in-memory stub can satisfy it for tests.
type Recorder interface {
	BeginBlock(index int, name string, mockPrevious int)
	RecordRaw(chunk [][]float64)
	RecordAux(chunk [][]float64)
	RecordChunkLength(lengths []int)
	RecordSignals(names []string, perSignal [][]float64)
	RecordTimestamps(ts []float64)
	RecordReward(scores []float64)
	RecordMark(codes []int)
	RecordProbe(codes []int)
	RecordCue(codes []int)
	RecordPosnerStim(flags []bool)
	RecordPosnerStimTime(t float64)
	RecordResponse(codes []int)
	RecordChoice(codes []int)
	RecordAnswer(codes []int)
	AdvanceTick(k int)
	FlushBlock() error
}

// BlockPlan binds a built Protocol to the signal it reads for feedback and
// reward purposes.
type BlockPlan struct {
	Name            string
	Protocol        protocol.Protocol
	BoundSignalName string
	RandomOverTimeS float64
	Recording       bool
}

// Experiment is the ProtocolSequencer: it owns the signal pipeline, the
// current block, the reward accumulator, and drives one tick at a time.
type Experiment struct {
	Inlet    Inlet
	Selector *ChannelsSelector

	Signals     []*signal.DerivedSignal
	Composites  []*signal.CompositeSignal
	nameIndex   map[string]int
	allNames    []string

	Blocks     []BlockPlan
	blockIndex int

	samplesIntoBlock    int
	blockPlannedSamples int

	rewardAcc *reward.Accumulator
	Recorder  Recorder
	Trouble  *TroubleDetector
	Logger   *slog.Logger

	rng *rand.Rand

	sampleCounter int
	finished      bool

	cueDirection      protocol.CueDirection
	baselineMedian    float64
	priorBlockPercent float64

	respondedThisTick bool
	chosenThisTick    int

	values     []float64
	chunks     [][]float64
	boundChunk []float64

	tickProbe           int
	tickCue             int
	tickPosnerStim      bool
	tickPosnerStimTime  float64
	havePosnerStimTime  bool
	tickResponse        int
	tickChoice          int
	tickAnswer          int
	tickMark            int
}

// NewExperiment wires a signal set, composite set and block plan into a
// runnable sequencer. seed makes per-block randomized decisions reproducible.
func NewExperiment(inlet Inlet, selector *ChannelsSelector, signals []*signal.DerivedSignal, composites []*signal.CompositeSignal, blocks []BlockPlan, rec Recorder, logger *slog.Logger, seed int64) *Experiment {
	nameIndex := make(map[string]int, len(signals)+len(composites))
	var allNames []string
	for i, s := range signals {
		nameIndex[s.Name] = i
		allNames = append(allNames, s.Name)
	}
	for _, c := range composites {
		nameIndex[c.Name] = c.Index
		for len(allNames) <= c.Index {
			allNames = append(allNames, "")
		}
		allNames[c.Index] = c.Name
	}
	n := len(allNames)
	return &Experiment{
		Inlet:      inlet,
		Selector:   selector,
		Signals:    signals,
		Composites: composites,
		nameIndex:  nameIndex,
		allNames:   allNames,
		Blocks:     blocks,
		rewardAcc:  reward.NewAccumulator(inlet.SampleRate()),
		Recorder:   rec,
		Trouble:    NewTroubleDetector(inlet.SampleRate(), selector.NumChannels()),
		Logger:     logger,
		rng:        rand.New(rand.NewSource(seed)),
		values:     make([]float64, n),
		chunks:     make([][]float64, n),
		chosenThisTick: -1,
	}
}

// Start prepares the first block.
func (e *Experiment) Start() {
	if len(e.Blocks) == 0 {
		e.finished = true
		return
	}
	e.enterBlock(0)
}

func (e *Experiment) Finished() bool { return e.finished }

func (e *Experiment) enterBlock(i int) {
	e.blockIndex = i
	e.samplesIntoBlock = 0
	block := e.Blocks[i]
	jitter := 0.0
	if block.RandomOverTimeS > 0 {
		jitter = e.rng.Float64() * block.RandomOverTimeS
	}
	e.blockPlannedSamples = int((block.Protocol.BlockDuration() + jitter) * e.Inlet.SampleRate())
	e.Recorder.BeginBlock(i+1, block.Name, 0)
	block.Protocol.OnEnter(e)
}

func (e *Experiment) advanceBlock() {
	block := e.Blocks[e.blockIndex]
	block.Protocol.OnExit(e)
	if block.Recording {
		if err := e.Recorder.FlushBlock(); err != nil {
			e.Logger.Error("flush failed", "block", e.blockIndex, "sample", e.sampleCounter, "err", err)
		}
	}
	next := e.blockIndex + 1
	if next >= len(e.Blocks) {
		e.finished = true
		return
	}
	e.enterBlock(next)
}

// Tick runs one pass of the pipeline: pull a chunk, update every signal,
// evaluate composites, run the current block's protocol, record, and
// advance the block if its duration has elapsed.
func (e *Experiment) Tick() {
	if e.finished {
		return
	}
	rawChunk, _, ts, err := e.Inlet.Pull()
	if err != nil {
		e.Logger.Error("inlet error", "block", e.blockIndex, "sample", e.sampleCounter, "err", err)
		return
	}
	k := len(rawChunk)
	if k == 0 {
		return
	}

	eegChunk, auxChunk := e.Selector.Project(rawChunk)
	e.Trouble.Observe(eegChunk)

	for i, sig := range e.Signals {
		e.chunks[i] = sig.Update(eegChunk)
		e.values[i] = sig.Latest()
	}
	for _, comp := range e.Composites {
		v := comp.Eval(e.values)
		e.values[comp.Index] = v
		repeated := make([]float64, k)
		for i := range repeated {
			repeated[i] = v
		}
		e.chunks[comp.Index] = repeated
	}

	block := e.Blocks[e.blockIndex]
	if idx, ok := e.nameIndex[block.BoundSignalName]; ok {
		e.boundChunk = e.chunks[idx]
	} else {
		e.boundChunk = make([]float64, k)
	}

	e.rewardAcc.Update(e.BoundSignalValue(), k)
	e.resetTickScratch()

	if block.Recording {
		e.Recorder.RecordRaw(eegChunk)
		e.Recorder.RecordAux(auxChunk)
		e.Recorder.RecordChunkLength(repeatInt(k, k))
		e.Recorder.RecordSignals(e.allNames, e.chunks)
		e.Recorder.RecordTimestamps(ts)
		e.Recorder.RecordReward(repeatFloat(e.rewardAcc.Score(), k))
	}

	advisory := block.Protocol.OnTick(e, k)

	if block.Recording {
		e.flushTickScratch(k)
		e.Recorder.AdvanceTick(k)
	}

	e.samplesIntoBlock += k
	e.sampleCounter += k
	e.respondedThisTick = false
	e.chosenThisTick = -1

	switch advisory {
	case protocol.EndNow:
		e.advanceBlock()
	case protocol.Hold:
	default:
		if e.samplesIntoBlock >= e.blockPlannedSamples {
			e.advanceBlock()
		}
	}
}

func (e *Experiment) resetTickScratch() {
	e.tickProbe = 0
	e.tickCue = 0
	e.tickPosnerStim = false
	e.tickPosnerStimTime = 0
	e.havePosnerStimTime = false
	e.tickResponse = 0
	e.tickChoice = -1
	e.tickAnswer = 0
	e.tickMark = 0
}

func (e *Experiment) flushTickScratch(k int) {
	e.Recorder.RecordProbe(repeatInt(e.tickProbe, k))
	e.Recorder.RecordCue(repeatInt(e.tickCue, k))
	e.Recorder.RecordPosnerStim(repeatBool(e.tickPosnerStim, k))
	if e.havePosnerStimTime {
		e.Recorder.RecordPosnerStimTime(e.tickPosnerStimTime)
	}
	e.Recorder.RecordResponse(repeatInt(e.tickResponse, k))
	choice := e.tickChoice
	if choice < 0 {
		choice = 0
	}
	e.Recorder.RecordChoice(repeatInt(choice, k))
	e.Recorder.RecordAnswer(repeatInt(e.tickAnswer, k))
	e.Recorder.RecordMark(repeatInt(e.tickMark, k))
}

// DeliverKeyPress injects a participant key press to be observed on the next
// tick by RespondedThisTick/ChosenThisTick.
func (e *Experiment) DeliverKeyPress(choice int) {
	e.respondedThisTick = true
	e.chosenThisTick = choice
}

// --- protocol.Context ---

func (e *Experiment) Rand() *rand.Rand   { return e.rng }
func (e *Experiment) SampleRate() float64 { return e.Inlet.SampleRate() }
func (e *Experiment) ElapsedSamples() int { return e.samplesIntoBlock }
func (e *Experiment) BlockSamples() int   { return e.blockPlannedSamples }

func (e *Experiment) SetCueDirection(d protocol.CueDirection) { e.cueDirection = d }
func (e *Experiment) CueDirection() protocol.CueDirection     { return e.cueDirection }
func (e *Experiment) SetBaselineMedian(v float64)             { e.baselineMedian = v }
func (e *Experiment) BaselineMedian() float64                 { return e.baselineMedian }
func (e *Experiment) SetPriorBlockPercent(v float64)          { e.priorBlockPercent = v }
func (e *Experiment) PriorBlockPercent() float64              { return e.priorBlockPercent }

func (e *Experiment) BoundSignalValue() float64 {
	if len(e.boundChunk) == 0 {
		return 0
	}
	return e.boundChunk[len(e.boundChunk)-1]
}

func (e *Experiment) SignalValue(name string) float64 {
	if idx, ok := e.nameIndex[name]; ok {
		return e.values[idx]
	}
	return 0
}

func (e *Experiment) BoundSignalChunk() []float64 { return e.boundChunk }

func (e *Experiment) RecordProbe(code int)              { e.tickProbe = code }
func (e *Experiment) RecordCue(code int)                { e.tickCue = code }
func (e *Experiment) RecordPosnerStimTime(t float64)    { e.tickPosnerStimTime = t; e.havePosnerStimTime = true }
func (e *Experiment) RecordPosnerStim(active bool)      { e.tickPosnerStim = active }
func (e *Experiment) RecordResponse(code int)           { e.tickResponse = code }
func (e *Experiment) RecordChoice(code int)             { e.tickChoice = code }
func (e *Experiment) RecordAnswer(code int)             { e.tickAnswer = code }
func (e *Experiment) RecordMark(code int)               { e.tickMark = code }

func (e *Experiment) Reward() *reward.Accumulator { return e.rewardAcc }

func (e *Experiment) Log(msg string, kv ...any) {
	e.Logger.Info(msg, append([]any{"block", e.blockIndex, "sample", e.sampleCounter}, kv...)...)
}

func (e *Experiment) RespondedThisTick() bool { return e.respondedThisTick }
func (e *Experiment) ChosenThisTick() int     { return e.chosenThisTick }

func repeatFloat(v float64, k int) []float64 {
	out := make([]float64, k)
	for i := range out {
		out[i] = v
	}
	return out
}

func repeatInt(v, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = v
	}
	return out
}

func repeatBool(v bool, k int) []bool {
	out := make([]bool, k)
	for i := range out {
		out[i] = v
	}
	return out
}
