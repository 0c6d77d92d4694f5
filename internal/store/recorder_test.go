// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRecorder_TicksLandAtSameRowRangeAcrossDatasets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nfb")
	c, err := Create(path)
	require.NoError(t, err)
	defer c.Close()

	rec := NewBlockRecorder(c, 10, 2, 0, []string{"alpha"})
	rec.BeginBlock(0, "baseline", 0)

	rec.RecordRaw([][]float64{{1, 2}, {3, 4}})
	rec.RecordSignals([]string{"alpha"}, [][]float64{{10, 20}})
	rec.RecordTimestamps([]float64{0, 0.004})
	rec.RecordReward([]float64{0.1, 0.1})
	rec.RecordProbe([]int{1, 1})
	rec.AdvanceTick(2)

	assert.Equal(t, 2, rec.s)
	assert.Equal(t, float64(1), rec.raw.FloatVal1D(0))
	assert.Equal(t, float64(2), rec.raw.FloatVal1D(1))
	assert.Equal(t, float64(3), rec.raw.FloatVal1D(2))
	assert.Equal(t, float64(10), rec.signals.FloatVal1D(0))
	assert.Equal(t, float64(20), rec.signals.FloatVal1D(1))
	assert.Equal(t, float64(1), rec.probeData.FloatVal1D(0))
}

func TestBlockRecorder_RecordsAuxChannelsAndChunkLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nfb")
	c, err := Create(path)
	require.NoError(t, err)
	defer c.Close()

	rec := NewBlockRecorder(c, 10, 2, 1, nil)
	rec.BeginBlock(0, "baseline", 0)

	rec.RecordRaw([][]float64{{1, 2}, {3, 4}})
	rec.RecordAux([][]float64{{100}, {200}})
	rec.RecordChunkLength([]int{2, 2})
	rec.AdvanceTick(2)

	assert.Equal(t, float64(100), rec.auxData.FloatVal1D(0))
	assert.Equal(t, float64(200), rec.auxData.FloatVal1D(1))
	assert.Equal(t, float64(2), rec.chunkData.FloatVal1D(0))
	assert.Equal(t, float64(2), rec.chunkData.FloatVal1D(1))

	require.NoError(t, rec.FlushBlock())
}

func TestBlockRecorder_RoomClampsAtCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nfb")
	c, err := Create(path)
	require.NoError(t, err)
	defer c.Close()

	rec := NewBlockRecorder(c, 2, 1, 0, nil) // capacity = int(2*1.1)+1 = 3
	rec.BeginBlock(0, "b", 0)

	rec.RecordRaw([][]float64{{1}, {2}, {3}, {4}, {5}})
	rec.AdvanceTick(5)
	assert.Equal(t, rec.capacity, rec.s, "write cursor must clamp at capacity, not overrun it")
}

func TestBlockRecorder_BeginBlockResetsCursorAndStimTimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nfb")
	c, err := Create(path)
	require.NoError(t, err)
	defer c.Close()

	rec := NewBlockRecorder(c, 10, 1, 0, nil)
	rec.BeginBlock(0, "a", 0)
	rec.RecordRaw([][]float64{{1}, {2}})
	rec.AdvanceTick(2)
	rec.RecordPosnerStimTime(1.5)

	rec.BeginBlock(1, "b", 0)
	assert.Equal(t, 0, rec.s)
	assert.Len(t, rec.posnerStimTimes, 0)
}

func TestBlockRecorder_FlushBlockTruncatesToActualSampleCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nfb")
	c, err := Create(path)
	require.NoError(t, err)

	rec := NewBlockRecorder(c, 100, 1, 0, []string{"alpha"})
	rec.BeginBlock(0, "baseline", 2)
	rec.RecordRaw([][]float64{{1}, {2}, {3}})
	rec.RecordSignals([]string{"alpha"}, [][]float64{{1, 2, 3}})
	rec.RecordTimestamps([]float64{0, 1, 2})
	rec.RecordReward([]float64{0, 0, 0})
	rec.AdvanceTick(3)

	require.NoError(t, rec.FlushBlock())
	require.NoError(t, c.Close())
}
