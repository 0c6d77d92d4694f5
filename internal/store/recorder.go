// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// BlockRecorder implements engine.Recorder: it preallocates one tensor per
// dataset at 110% of the session's configured maximum block length, fills
// rows as ticks arrive, and truncates+flushes to the container at block end.
// The same buffers are reused across blocks (BeginBlock just rewinds the
// write cursor), on the assumption that every block fits the session-wide
// maximum — a simplification over a per-block-sized preallocation.
type BlockRecorder struct {
	container *Container
	capacity  int

	channels    int
	auxChannels int
	signalCols  map[string]int
	signalNames []string

	blockIndex   int
	blockName    string
	mockPrevious int
	s            int

	raw            *etensor.Float32
	auxData        *etensor.Float32
	chunkData      *etensor.Float32
	signals        *etensor.Float32
	timestamps     *etensor.Float32
	rewardData     *etensor.Float32
	markData       *etensor.Float32
	probeData      *etensor.Float32
	cueData        *etensor.Float32
	posnerStimData *etensor.Float32
	responseData   *etensor.Float32
	choiceData     *etensor.Float32
	answerData     *etensor.Float32

	posnerStimTimes []float64
}

func NewBlockRecorder(container *Container, maxSamples, channels, auxChannels int, signalNames []string) *BlockRecorder {
	capacity := int(float64(maxSamples)*1.1) + 1
	cols := make(map[string]int, len(signalNames))
	for i, n := range signalNames {
		cols[n] = i
	}
	mk1D := func() *etensor.Float32 {
		t := &etensor.Float32{}
		t.SetShape([]int{capacity}, nil, nil)
		return t
	}
	mk2D := func(c int) *etensor.Float32 {
		t := &etensor.Float32{}
		t.SetShape([]int{capacity, c}, nil, nil)
		return t
	}
	return &BlockRecorder{
		container:      container,
		capacity:       capacity,
		channels:       channels,
		auxChannels:    auxChannels,
		signalCols:     cols,
		signalNames:    signalNames,
		raw:            mk2D(channels),
		auxData:        mk2D(auxChannels),
		chunkData:      mk1D(),
		signals:        mk2D(len(signalNames)),
		timestamps:     mk1D(),
		rewardData:     mk1D(),
		markData:       mk1D(),
		probeData:      mk1D(),
		cueData:        mk1D(),
		posnerStimData: mk1D(),
		responseData:   mk1D(),
		choiceData:     mk1D(),
		answerData:     mk1D(),
	}
}

func (r *BlockRecorder) BeginBlock(index int, name string, mockPrevious int) {
	r.blockIndex = index
	r.blockName = name
	r.mockPrevious = mockPrevious
	r.s = 0
	r.posnerStimTimes = r.posnerStimTimes[:0]
}

func (r *BlockRecorder) room(k int) int {
	if r.s+k > r.capacity {
		k = r.capacity - r.s
	}
	if k < 0 {
		k = 0
	}
	return k
}

func (r *BlockRecorder) RecordRaw(chunk [][]float64) {
	k := r.room(len(chunk))
	for i := 0; i < k; i++ {
		row := chunk[i]
		for c := 0; c < r.channels; c++ {
			v := 0.0
			if c < len(row) {
				v = row[c]
			}
			r.raw.SetFloat1D((r.s+i)*r.channels+c, v)
		}
	}
}

func (r *BlockRecorder) RecordAux(chunk [][]float64) {
	k := r.room(len(chunk))
	for i := 0; i < k; i++ {
		row := chunk[i]
		for c := 0; c < r.auxChannels; c++ {
			v := 0.0
			if c < len(row) {
				v = row[c]
			}
			r.auxData.SetFloat1D((r.s+i)*r.auxChannels+c, v)
		}
	}
}

func (r *BlockRecorder) RecordChunkLength(lengths []int) {
	fillInt(r.chunkData, r.s, r.room(len(lengths)), lengths)
}

func (r *BlockRecorder) RecordSignals(names []string, perSignal [][]float64) {
	n := len(r.signalNames)
	if n == 0 {
		return
	}
	k := 0
	for _, col := range perSignal {
		if len(col) > k {
			k = len(col)
		}
	}
	k = r.room(k)
	for colIdx, name := range names {
		dstCol, ok := r.signalCols[name]
		if !ok || colIdx >= len(perSignal) {
			continue
		}
		values := perSignal[colIdx]
		for i := 0; i < k && i < len(values); i++ {
			r.signals.SetFloat1D((r.s+i)*n+dstCol, values[i])
		}
	}
}

func (r *BlockRecorder) RecordTimestamps(ts []float64) {
	k := r.room(len(ts))
	for i := 0; i < k; i++ {
		r.timestamps.SetFloat1D(r.s+i, ts[i])
	}
}

func (r *BlockRecorder) RecordReward(scores []float64) {
	k := r.room(len(scores))
	for i := 0; i < k; i++ {
		r.rewardData.SetFloat1D(r.s+i, scores[i])
	}
}

// AdvanceTick moves the write cursor forward by k rows. It must be called
// exactly once per tick, after every Record* call for that tick's chunk has
// landed at the same [s, s+k) row range.
func (r *BlockRecorder) AdvanceTick(k int) {
	r.s += r.room(k)
}

func fillInt(t *etensor.Float32, s, k int, codes []int) {
	for i := 0; i < k && i < len(codes); i++ {
		t.SetFloat1D(s+i, float64(codes[i]))
	}
}

func fillBool(t *etensor.Float32, s, k int, flags []bool) {
	for i := 0; i < k && i < len(flags); i++ {
		v := 0.0
		if flags[i] {
			v = 1
		}
		t.SetFloat1D(s+i, v)
	}
}

func (r *BlockRecorder) RecordMark(codes []int)     { fillInt(r.markData, r.s, r.room(len(codes)), codes) }
func (r *BlockRecorder) RecordProbe(codes []int)    { fillInt(r.probeData, r.s, r.room(len(codes)), codes) }
func (r *BlockRecorder) RecordCue(codes []int)      { fillInt(r.cueData, r.s, r.room(len(codes)), codes) }
func (r *BlockRecorder) RecordPosnerStim(flags []bool) {
	fillBool(r.posnerStimData, r.s, r.room(len(flags)), flags)
}
func (r *BlockRecorder) RecordPosnerStimTime(t float64) {
	r.posnerStimTimes = append(r.posnerStimTimes, t)
}
func (r *BlockRecorder) RecordResponse(codes []int) { fillInt(r.responseData, r.s, r.room(len(codes)), codes) }
func (r *BlockRecorder) RecordChoice(codes []int)   { fillInt(r.choiceData, r.s, r.room(len(codes)), codes) }
func (r *BlockRecorder) RecordAnswer(codes []int)   { fillInt(r.answerData, r.s, r.room(len(codes)), codes) }

// FlushBlock truncates every dataset to the block's actual sample count and
// writes them into the container under group "protocol{index}".
func (r *BlockRecorder) FlushBlock() error {
	group := fmt.Sprintf("protocol%d", r.blockIndex)
	s := r.s

	writes := []struct {
		name string
		t    *etensor.Float32
		cols int
	}{
		{"raw_data", r.raw, r.channels},
		{"raw_other_data", r.auxData, r.auxChannels},
		{"chunk_data", r.chunkData, 1},
		{"signals_data", r.signals, len(r.signalNames)},
		{"timestamp_data", r.timestamps, 1},
		{"reward_data", r.rewardData, 1},
		{"mark_data", r.markData, 1},
		{"probe_data", r.probeData, 1},
		{"cue_data", r.cueData, 1},
		{"posner_stim_data", r.posnerStimData, 1},
		{"response_data", r.responseData, 1},
		{"choice_data", r.choiceData, 1},
		{"answer_data", r.answerData, 1},
	}
	for _, w := range writes {
		truncated := truncate(w.t, s, w.cols)
		if err := r.container.WriteTensorFloat32(group, w.name, truncated); err != nil {
			return fmt.Errorf("store: flush %s/%s: %w", group, w.name, err)
		}
	}

	stimTimes := &etensor.Float32{}
	stimTimes.SetShape([]int{len(r.posnerStimTimes)}, nil, nil)
	for i, v := range r.posnerStimTimes {
		stimTimes.SetFloat1D(i, v)
	}
	if err := r.container.WriteTensorFloat32(group, "posner_stim_time", stimTimes); err != nil {
		return err
	}

	if err := r.container.WriteAttrString(group+"/name", r.blockName); err != nil {
		return err
	}
	if err := r.container.WriteAttrFloat(group+"/mock_previous", float64(r.mockPrevious)); err != nil {
		return err
	}
	return nil
}

// truncate copies the first rows×cols elements of t into a freshly shaped
// tensor (rather than relying on an unverified in-place resize). cols == 1
// collapses to a 1D dataset (the convention for every per-sample scalar
// dataset); cols == 0 preserves a 2D rows×0 shape instead of reading past a
// channel-less tensor, for sessions configured with no auxiliary channels.
func truncate(t *etensor.Float32, rows, cols int) *etensor.Float32 {
	out := &etensor.Float32{}
	switch {
	case cols > 1:
		out.SetShape([]int{rows, cols}, nil, nil)
	case cols == 0:
		out.SetShape([]int{rows, 0}, nil, nil)
		return out
	default:
		out.SetShape([]int{rows}, nil, nil)
	}
	n := rows * cols
	for i := 0; i < n; i++ {
		out.SetFloat1D(i, t.FloatVal1D(i))
	}
	return out
}
