// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// FixationCross is a short rest block between trials. If MovementSignalName
// is set, it collects that movement signal (EOG/ECG-derived) every tick and
// logs its median on exit; the median is not stored on the sequencer. It does
// not read the sequencer's PriorBlockPercent, which nothing in the engine sets.
type FixationCross struct {
	Common
	MovementSignalName string

	recording []float64
}

func (f *FixationCross) OnEnter(ctx Context) {
	f.recording = f.recording[:0]
}

func (f *FixationCross) OnTick(ctx Context, k int) Advisory {
	if f.MovementSignalName != "" {
		f.recording = append(f.recording, ctx.SignalValue(f.MovementSignalName))
	}
	return Continue
}

func (f *FixationCross) OnExit(ctx Context) {
	if f.MovementSignalName != "" {
		ctx.Log("fixation cross movement-signal median", "value", median(f.recording))
	}
}
