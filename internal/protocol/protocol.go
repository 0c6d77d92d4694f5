// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protocol implements the experiment block types that the
// sequencer advances through: Baseline, Feedback, cueing, probes, and the
// assorted timed/participant-driven slots.
package protocol

import (
	"math/rand"

	"github.com/emer/nfbengine/internal/reward"
)

// Advisory is returned from OnTick to tell the sequencer how to treat the
// block's duration timer this tick.
type Advisory int

const (
	// Continue lets the sequencer apply its normal duration-based check.
	Continue Advisory = iota
	// EndNow forces an immediate block transition regardless of duration.
	EndNow
	// Hold keeps the block alive past its planned duration until something
	// else (a participant key, a forced timeout) ends it.
	Hold
)

type CueDirection int

const (
	CueNone CueDirection = iota
	CueLeft
	CueRight
	CueCenter
)

type ProbeLocation int

const (
	ProbeNone ProbeLocation = iota
	ProbeRight
	ProbeLeft
)

// Context is the surface a Protocol uses to read and mutate sequencer-level
// state shared across blocks, and to record block-local events.
type Context interface {
	Rand() *rand.Rand
	SampleRate() float64
	ElapsedSamples() int
	BlockSamples() int

	SetCueDirection(d CueDirection)
	CueDirection() CueDirection
	SetBaselineMedian(v float64)
	BaselineMedian() float64
	SetPriorBlockPercent(v float64)
	PriorBlockPercent() float64

	BoundSignalValue() float64
	SignalValue(name string) float64
	// BoundSignalChunk returns every sample the bound signal published this
	// tick (length == the tick's chunk length).
	BoundSignalChunk() []float64

	RecordProbe(code int)
	RecordCue(code int)
	RecordPosnerStimTime(t float64)
	RecordPosnerStim(active bool)
	RecordResponse(code int)
	RecordChoice(code int)
	RecordAnswer(code int)
	RecordMark(code int)

	Reward() *reward.Accumulator
	Log(msg string, kv ...any)

	// RespondedThisTick reports whether a participant key was observed this
	// tick; HOLD-until-response blocks poll this.
	RespondedThisTick() bool
	// ChosenThisTick returns the chosen option index, or -1 if none.
	ChosenThisTick() int
}

// Protocol is the common contract every block type satisfies.
type Protocol interface {
	Name() string
	OnEnter(ctx Context)
	OnTick(ctx Context, chunkLen int) Advisory
	OnExit(ctx Context)
	BlockDuration() float64
}

// Common holds the fields shared by every protocol variant's settings.
type Common struct {
	BlockName               string
	Duration                float64
	RandomOverTime          float64
	RewardSignalID          string
	RewardThreshold         float64
	MockSourcePath          string
	MockSourceDataset       string
	ShowReward              bool
	HoldFlag                bool
	UpdateStatisticsInEnd   bool
	MockPrevious            int
}

func (c *Common) Name() string { return c.BlockName }

// BlockDuration reports the block's configured length in seconds, the single
// source of truth the engine uses to size its per-block sample budget.
func (c *Common) BlockDuration() float64 { return c.Duration }
