// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticInlet_PullIsNonBlockingAndYieldsDueSamples(t *testing.T) {
	inlet := NewSyntheticInlet(1000, []string{"C1", "C2"}, 1)
	time.Sleep(5 * time.Millisecond)
	chunk, _, ts, err := inlet.Pull()
	require.NoError(t, err)
	assert.NotEmpty(t, chunk, "some samples should be due after sleeping past one sample period")
	assert.Len(t, ts, len(chunk))
	for _, row := range chunk {
		assert.Len(t, row, 2)
	}
}

func TestSyntheticInlet_ImmediateSecondPullCanBeEmpty(t *testing.T) {
	inlet := NewSyntheticInlet(250, []string{"C1"}, 1)
	_, _, _, _ = inlet.Pull()
	chunk, _, _, err := inlet.Pull()
	require.NoError(t, err)
	assert.True(t, len(chunk) == 0, "calling Pull again with no elapsed time should not block or error")
}

func TestFileReplayInlet_LoopsAndClosesCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	data := [][]float64{{1}, {2}, {3}}
	inlet := NewFileReplayInlet(ctx, data, 1000, []string{"C1"})

	deadline := time.After(500 * time.Millisecond)
	var total [][]float64
	for len(total) < 6 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for replayed samples")
		default:
		}
		chunk, _, _, err := inlet.Pull()
		require.NoError(t, err)
		total = append(total, chunk...)
		time.Sleep(time.Millisecond)
	}

	assert.NoError(t, inlet.Close())
}
