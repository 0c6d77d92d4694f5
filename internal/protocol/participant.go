// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// ParticipantInput holds until any participant key is pressed, then emits a
// fixed acknowledgement code to the answer recorder.
type ParticipantInput struct {
	Common
}

func (p *ParticipantInput) OnEnter(ctx Context) {}

func (p *ParticipantInput) OnTick(ctx Context, k int) Advisory {
	if ctx.RespondedThisTick() {
		ctx.RecordAnswer(1)
		return EndNow
	}
	ctx.RecordAnswer(0)
	return Hold
}

func (p *ParticipantInput) OnExit(ctx Context) {}

// ParticipantChoice holds until the participant selects one of several
// options, then emits the chosen index to the choice recorder.
type ParticipantChoice struct {
	Common
	NumOptions int
}

func (p *ParticipantChoice) OnEnter(ctx Context) {}

func (p *ParticipantChoice) OnTick(ctx Context, k int) Advisory {
	if choice := ctx.ChosenThisTick(); choice >= 0 {
		ctx.RecordChoice(choice)
		return EndNow
	}
	ctx.RecordChoice(-1)
	return Hold
}

func (p *ParticipantChoice) OnExit(ctx Context) {}

// ExperimentStart holds until a participant key releases the experiment,
// typically a single instructions screen before the real sequence begins.
type ExperimentStart struct {
	Common
}

func (e *ExperimentStart) OnEnter(ctx Context) {}

func (e *ExperimentStart) OnTick(ctx Context, k int) Advisory {
	if ctx.RespondedThisTick() {
		return EndNow
	}
	return Hold
}

func (e *ExperimentStart) OnExit(ctx Context) {}
